package navigator

import (
	"fmt"

	"dockview/internal/apperr"
)

// Command is a user request coming from a button, menu item or key.
type Command int

const (
	CmdOpen Command = iota
	CmdOpenFolder
	CmdNext
	CmdPrevious
	CmdFirst
	CmdLast
	CmdZoomIn
	CmdZoomOut
	CmdZoomReset
	CmdFit
	CmdRotateLeft
	CmdRotateRight
	CmdFullscreen
	CmdSlideshow
	CmdDelete
	CmdDetails
	CmdSaveAs
	CmdShare
)

var commandNames = map[Command]string{
	CmdOpen:        "Open",
	CmdOpenFolder:  "OpenFolder",
	CmdNext:        "Next",
	CmdPrevious:    "Previous",
	CmdFirst:       "First",
	CmdLast:        "Last",
	CmdZoomIn:      "ZoomIn",
	CmdZoomOut:     "ZoomOut",
	CmdZoomReset:   "ZoomReset",
	CmdFit:         "Fit",
	CmdRotateLeft:  "RotateLeft",
	CmdRotateRight: "RotateRight",
	CmdFullscreen:  "Fullscreen",
	CmdSlideshow:   "Slideshow",
	CmdDelete:      "Delete",
	CmdDetails:     "Details",
	CmdSaveAs:      "SaveAs",
	CmdShare:       "Share",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Commands returns every command in declaration order.
func Commands() []Command {
	out := make([]Command, 0, len(commandNames))
	for c := CmdOpen; c <= CmdShare; c++ {
		out = append(out, c)
	}
	return out
}

// Do runs cmd against the navigator. Commands that need dialogs, windows or
// timers return apperr.ErrNotNavigatorCommand.
func (n *Navigator) Do(cmd Command) error {
	switch cmd {
	case CmdNext:
		return n.Next()
	case CmdPrevious:
		return n.Previous()
	case CmdFirst:
		return n.First()
	case CmdLast:
		return n.Last()
	case CmdZoomIn:
		return n.ApplyZoom(ZoomStep)
	case CmdZoomOut:
		return n.ApplyZoom(1 / ZoomStep)
	case CmdZoomReset:
		n.ResetZoom()
		return nil
	case CmdFit:
		n.ToggleFit()
		return nil
	case CmdRotateLeft:
		return n.Rotate(-90)
	case CmdRotateRight:
		return n.Rotate(90)
	default:
		return fmt.Errorf("%w: %s", apperr.ErrNotNavigatorCommand, cmd)
	}
}
