package services

import (
	"errors"
	"io"
	"os"
	"strings"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// ClipboardSharing shares by copying to the terminal clipboard with OSC 52.
type ClipboardSharing struct {
	out  io.Writer
	tmux bool
}

// NewClipboardSharing writes sequences to out, or to stderr when out is nil.
func NewClipboardSharing(out io.Writer) *ClipboardSharing {
	if out == nil {
		out = os.Stderr
	}
	return &ClipboardSharing{
		out:  out,
		tmux: os.Getenv("TMUX") != "",
	}
}

// Name identifies the sharing target.
func (s *ClipboardSharing) Name() string {
	return "clipboard"
}

// Text copies text to the clipboard.
func (s *ClipboardSharing) Text(text string) error {
	if text == "" {
		return errors.New("sharing: nothing to share")
	}
	seq := osc52.New(text)
	if s.tmux {
		seq = seq.Tmux()
	}
	_, err := seq.WriteTo(s.out)
	return err
}

// Image copies the image path followed by text. Terminals cannot carry the
// image itself.
func (s *ClipboardSharing) Image(path, text string) error {
	if path == "" {
		return errors.New("sharing: no image")
	}
	return s.Text(strings.TrimSpace(text + "\n" + path))
}
