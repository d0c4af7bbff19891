package xiangqipresenter

import (
	"encoding/base64"
	"strings"

	"github.com/park285/Cheese-Xiangqi/pkg/xiangqidto"
)

// Presenter delivers formatted messages and board images without coupling to the command layer.
type Presenter struct {
	sendMessage func(target, message string) error
	sendImage   func(target, imageBase64 string) error
}

func NewPresenter(sendMessage func(target, message string) error, sendImage func(target, imageBase64 string) error) *Presenter {
	return &Presenter{
		sendMessage: sendMessage,
		sendImage:   sendImage,
	}
}

func (p *Presenter) Board(target, message string, state *xiangqidto.SessionState) error {
	if p == nil {
		return nil
	}

	if text := strings.TrimSpace(message); text != "" && p.sendMessage != nil {
		if err := p.sendMessage(target, message); err != nil {
			return err
		}
	}

	if state != nil && len(state.BoardImage) > 0 && p.sendImage != nil {
		if err := p.Image(target, state.BoardImage); err != nil {
			return err
		}
	}
	return nil
}

func (p *Presenter) Image(target string, png []byte) error {
	if p == nil || p.sendImage == nil || len(png) == 0 {
		return nil
	}
	return p.sendImage(target, base64.StdEncoding.EncodeToString(png))
}

func (p *Presenter) Message(target, message string) error {
	if p == nil || p.sendMessage == nil || strings.TrimSpace(message) == "" {
		return nil
	}
	return p.sendMessage(target, message)
}
