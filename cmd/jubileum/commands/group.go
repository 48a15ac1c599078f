package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tartampluch/go-jubileum/internal/config"
	"gopkg.in/yaml.v3"
)

var errPersonFlag = errors.New(config.ErrPersonFlag)

// groupFile is the YAML layout accepted by --file.
type groupFile struct {
	Participants []groupMember `yaml:"participants"`
}

type groupMember struct {
	Name      string `yaml:"name"`
	Birthdate string `yaml:"birthdate"`
}

// loadGroupFile reads participants in file order. An empty file is an empty group.
func loadGroupFile(path string) ([]formInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrGroupFile, err)
	}

	var group groupFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&group); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", config.ErrGroupFile, err)
	}

	inputs := make([]formInput, len(group.Participants))
	for i, m := range group.Participants {
		inputs[i] = formInput{Name: m.Name, Birthdate: m.Birthdate}
	}
	return inputs, nil
}

// parsePersonFlag splits "Name=DD-MM-YYYY". Validation is left to the session.
func parsePersonFlag(value string) (formInput, error) {
	name, birthdate, ok := strings.Cut(value, config.PersonSeparator)
	if !ok {
		return formInput{}, fmt.Errorf("%w: %q", errPersonFlag, value)
	}
	return formInput{Name: name, Birthdate: birthdate}, nil
}
