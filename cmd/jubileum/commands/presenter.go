package commands

import (
	"fmt"
	"io"

	"github.com/tartampluch/go-jubileum/internal/engine"
	"github.com/tartampluch/go-jubileum/internal/locale"
)

// formInput is one participant as typed on the command line or in a file.
type formInput struct {
	Name      string
	Birthdate string
}

// textPresenter renders the controller's output as plain lines.
type textPresenter struct {
	out, errOut io.Writer
	t           *locale.Translator

	pending formInput
	rows    []engine.Participant
}

var _ engine.Presentation = (*textPresenter)(nil)

func (p *textPresenter) ReadFormInput() (string, string) {
	return p.pending.Name, p.pending.Birthdate
}

func (p *textPresenter) RenderParticipantRow(participant engine.Participant) {
	p.rows = append(p.rows, participant)
}

func (p *textPresenter) ClearParticipantRows() {
	p.rows = nil
}

func (p *textPresenter) RenderJubileumResults(results []engine.JubileumResult) {
	for _, r := range results {
		fmt.Fprintln(p.out, p.t.ResultLine(r))
	}
}

func (p *textPresenter) RenderError(reason error) {
	if reason != nil {
		fmt.Fprintln(p.errOut, p.t.Error(reason))
	}
}
