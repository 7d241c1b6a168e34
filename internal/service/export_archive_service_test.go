package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdeskhq/flightdesk-api/pkg/storage"
)

func newArchiveService(t *testing.T) *ExportArchiveService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportArchiveService(store, signer, ArchiveConfig{QueueWorkers: 1}, nil)
}

func TestExportArchiveServiceRoundTrip(t *testing.T) {
	svc := newArchiveService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	result := &ExportResult{
		Content:     []byte("Day,Start,End\nMonday,09:00:00,11:00:00\n"),
		ContentType: "text/csv",
		Filename:    "roster-jane-doe.csv",
	}
	token, err := svc.Archive("tenant-1", result)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// The write happens on a worker; poll briefly until it lands.
	var (
		file        io.ReadCloser
		contentType string
		filename    string
	)
	require.Eventually(t, func() bool {
		file, contentType, filename, err = svc.Open(token)
		return err == nil
	}, time.Second, 10*time.Millisecond)
	defer file.Close() //nolint:errcheck

	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, filename, "roster-jane-doe.csv")

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, result.Content, data)
}

func TestExportArchiveServiceRejectsBadToken(t *testing.T) {
	svc := newArchiveService(t)

	_, _, _, err := svc.Open("not-a-token")
	require.Error(t, err)
}

func TestExportArchiveServiceArchiveRequiresStartedQueue(t *testing.T) {
	svc := newArchiveService(t)

	_, err := svc.Archive("tenant-1", &ExportResult{Content: []byte("x"), Filename: "f.csv"})
	require.Error(t, err)
}
