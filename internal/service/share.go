package service

import (
	"net/url"
	"os/exec"
	"path/filepath"
)

// shareTool is the desktop helper that opens a mail composer with an attachment.
const shareTool = "xdg-email"

// ShareCommand returns the command that opens the user's mail client with
// path attached. The caller starts it.
func ShareCommand(path string) *exec.Cmd {
	return exec.Command(shareTool, "--attach", path)
}

// CanShare reports whether the share helper is installed.
func CanShare() bool {
	_, err := exec.LookPath(shareTool)
	return err == nil
}

// ShareMailURL is a mailto: link naming path, for systems without the share
// helper. Mail links cannot carry attachments, so the body holds the path.
func ShareMailURL(path string) *url.URL {
	q := url.Values{}
	q.Set("subject", filepath.Base(path))
	q.Set("body", path)
	return &url.URL{Scheme: "mailto", RawQuery: q.Encode()}
}
