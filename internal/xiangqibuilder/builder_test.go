package xiangqibuilder

import (
	"context"
	"testing"
	"time"

	"github.com/park285/Cheese-Xiangqi/internal/config"
)

func TestNewWiresService(t *testing.T) {
	deps, err := New(&config.AppConfig{
		SessionTTL:   time.Minute,
		MaxSessions:  2,
		RenderImages: false,
		ImageCell:    32,
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = deps.Close() })

	st, err := deps.Service.NewGame(context.Background(), "")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if st.BoardImage != nil {
		t.Fatalf("images disabled but board image attached")
	}
	if deps.Formatter.Help() == "" {
		t.Fatalf("expected help text from catalog")
	}
}

func TestNewRejectsNilConfig(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestNewRejectsMissingMessagesDir(t *testing.T) {
	_, err := New(&config.AppConfig{MessagesDir: t.TempDir() + "/missing"}, nil)
	if err == nil {
		t.Fatalf("expected error for missing override dir")
	}
}
