package xiangqipresenter

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/park285/Cheese-Xiangqi/pkg/xiangqidto"
)

func TestPresenterBoardSendsTextThenImage(t *testing.T) {
	var calls []string
	p := NewPresenter(
		func(target, message string) error {
			calls = append(calls, "msg:"+target+":"+message)
			return nil
		},
		func(target, image string) error {
			calls = append(calls, "img:"+target+":"+image)
			return nil
		},
	)
	state := &xiangqidto.SessionState{BoardImage: []byte("png")}
	if err := p.Board("tui", "hello", state); err != nil {
		t.Fatalf("Board: %v", err)
	}
	want := []string{"msg:tui:hello", "img:tui:" + base64.StdEncoding.EncodeToString([]byte("png"))}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestPresenterSkipsBlankAndPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	p := NewPresenter(func(string, string) error { return boom }, nil)
	if err := p.Board("x", "   ", &xiangqidto.SessionState{BoardImage: []byte("png")}); err != nil {
		t.Fatalf("blank message should be skipped, got %v", err)
	}
	if err := p.Message("x", "hi"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	var nilPresenter *Presenter
	if err := nilPresenter.Board("x", "hi", nil); err != nil {
		t.Fatalf("nil presenter should be a no-op")
	}
}
