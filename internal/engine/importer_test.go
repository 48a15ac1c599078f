package engine_test

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jubileum/internal/config"
	"github.com/tartampluch/go-jubileum/internal/engine"
)

// MockFetcher simulates the network layer for unit tests using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

// Fetch implements the engine.VCardFetcher interface.
func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func webImporter(content string) (*engine.Importer, *MockFetcher) {
	f := new(MockFetcher)
	f.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(io.NopCloser(strings.NewReader(content)), nil)
	return &engine.Importer{Fetcher: f}, f
}

var webConfig = engine.SourceConfig{Mode: config.SourceModeWeb, WebURL: "http://test.local"}

func TestImport_Local_Success(t *testing.T) {
	vcardContent := `BEGIN:VCARD
VERSION:4.0
FN:Anna Jansen
BDAY:1990-01-01
END:VCARD`

	tmpFile, err := os.CreateTemp("", "test_vcard_*.vcf")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()
	_, err = tmpFile.WriteString(vcardContent)
	require.NoError(t, err)
	_ = tmpFile.Close()

	im := &engine.Importer{}
	participants, stats, err := im.Import(context.Background(), engine.SourceConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: tmpFile.Name(),
	})

	require.NoError(t, err)
	assert.Equal(t, engine.ImportStats{Processed: 1, Imported: 1}, stats)
	require.Len(t, participants, 1)
	assert.Equal(t, engine.Participant{Name: "Anna Jansen", Birthdate: date(1990, 1, 1)}, participants[0])
}

func TestImport_Web_KeepsOrderAndSkipsUnusable(t *testing.T) {
	vcardContent := "BEGIN:VCARD\nVERSION:3.0\nFN:Bram\nBDAY:19851231\nEND:VCARD\n" +
		"BEGIN:VCARD\nVERSION:3.0\nFN:No Year\nBDAY:--1025\nEND:VCARD\n" +
		"BEGIN:VCARD\nVERSION:3.0\nFN:Zoë\nBDAY:2000-01-01\nEND:VCARD\n" +
		"BEGIN:VCARD\nVERSION:3.0\nFN:No Birthday\nEND:VCARD\n" +
		"BEGIN:VCARD\nVERSION:3.0\nN:Jansen;Piet;;;\nBDAY:2001-06-15T00:00:00Z\nEND:VCARD\n"

	im, f := webImporter(vcardContent)
	participants, stats, err := im.Import(context.Background(), webConfig)

	require.NoError(t, err)
	f.AssertExpectations(t)
	assert.Equal(t, engine.ImportStats{Processed: 5, Imported: 2, Skipped: 3}, stats)
	require.Len(t, participants, 2)
	assert.Equal(t, "Bram", participants[0].Name)
	assert.Equal(t, date(1985, 12, 31), participants[0].Birthdate)
	assert.Equal(t, "Piet Jansen", participants[1].Name, "N is used when FN is missing")
	assert.Equal(t, date(2001, 6, 15), participants[1].Birthdate)
}

func TestImport_StopsAtInvalidCardKeepingEarlierOnes(t *testing.T) {
	vcardContent := "BEGIN:VCARD\nVERSION:3.0\nFN:Anna\nBDAY:1990-01-01\nEND:VCARD\n" +
		"BEGIN:VEVENT\nSUMMARY:Not a card\nEND:VEVENT\n" +
		"BEGIN:VCARD\nVERSION:3.0\nFN:Bram\nBDAY:2000-01-01\nEND:VCARD\n"

	im, _ := webImporter(vcardContent)
	participants, stats, err := im.Import(context.Background(), webConfig)

	require.NoError(t, err)
	assert.Equal(t, engine.ImportStats{Processed: 1, Imported: 1}, stats)
	require.Len(t, participants, 1)
	assert.Equal(t, "Anna", participants[0].Name)
}

func TestImport_DateFormats_TableDriven(t *testing.T) {
	tests := []struct {
		name      string
		bdayValue string
		imported  bool
	}{
		{"ISO8601 Standard", "1990-10-25", true},
		{"Basic Format", "19901025", true},
		{"RFC3339", "1990-10-25T00:00:00Z", true},
		{"Truncated (Month-Day)", "--10-25", false},
		{"Truncated Basic", "--1025", false},
		{"Garbage Data", "not-a-date", false},
		{"Empty Date", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im, _ := webImporter("BEGIN:VCARD\nVERSION:3.0\nFN:Test Person\nBDAY:" + tt.bdayValue + "\nEND:VCARD")

			participants, _, err := im.Import(context.Background(), webConfig)
			require.NoError(t, err)
			if tt.imported {
				require.Len(t, participants, 1)
				assert.Equal(t, date(1990, 10, 25), participants[0].Birthdate)
			} else {
				assert.Empty(t, participants)
			}
		})
	}
}

func TestImport_Web_NetworkError(t *testing.T) {
	f := new(MockFetcher)
	expectedErr := errors.New("network unreachable")
	f.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, expectedErr)

	im := &engine.Importer{Fetcher: f}
	participants, stats, err := im.Import(context.Background(), webConfig)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Nil(t, participants)
	assert.Equal(t, engine.ImportStats{}, stats)
}

func TestImport_ConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     engine.SourceConfig
		wantErr string
	}{
		{"Empty local path", engine.SourceConfig{Mode: config.SourceModeLocal}, config.ErrLocalPathEmpty},
		{"Empty URL", engine.SourceConfig{Mode: config.SourceModeWeb}, config.ErrWebURLEmpty},
		{"Missing fetcher", webConfig, config.ErrFetcherMissing},
		{"Unknown mode", engine.SourceConfig{Mode: "ftp"}, config.ErrModeUnsupport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := (&engine.Importer{}).Import(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImport_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	tmpFile, err := os.CreateTemp("", "cancel_test_*.vcf")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()
	_ = tmpFile.Close()

	cancel()

	_, _, err = (&engine.Importer{}).Import(ctx, engine.SourceConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: tmpFile.Name(),
	})

	assert.Equal(t, context.Canceled, err, "Should return context canceled error")
}

func TestImport_FeedsController(t *testing.T) {
	im, _ := webImporter("BEGIN:VCARD\nVERSION:3.0\nFN:Anna\nBDAY:2000-01-01\nEND:VCARD\n" +
		"BEGIN:VCARD\nVERSION:3.0\nFN:Bram\nBDAY:1990-01-01\nEND:VCARD\n")

	participants, _, err := im.Import(context.Background(), webConfig)
	require.NoError(t, err)

	c := engine.NewController(newMockPresentation())
	report := c.AddParticipants(participants)
	assert.Equal(t, 2, report.Added)

	results, err := c.Calculate()
	require.NoError(t, err)
	assert.Equal(t, date(2020, 1, 1), results[0].Date)
}
