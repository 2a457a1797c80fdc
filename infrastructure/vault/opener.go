package vault

import (
	"os/exec"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"notecanvas/domain/core/valueobjects"
	pkgerrors "notecanvas/pkg/errors"
)

// SystemOpener opens a note with the operating system's default handler for
// markdown files.
type SystemOpener struct {
	root   string
	logger *zap.Logger
}

// NewSystemOpener creates an opener for notes under the repository's root
func NewSystemOpener(repo *Repository, logger *zap.Logger) *SystemOpener {
	return &SystemOpener{root: repo.Root(), logger: logger}
}

// Open launches the handler without waiting for it to exit.
func (o *SystemOpener) Open(id valueobjects.NoteID) error {
	p := filepath.Join(o.root, filepath.FromSlash(id.String()))

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", p)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", p)
	default:
		cmd = exec.Command("xdg-open", p)
	}

	if err := cmd.Start(); err != nil {
		return pkgerrors.NewIOError("open", err)
	}
	o.logger.Debug("opened note", zap.String("note", id.String()))

	// Reap the child so it does not linger as a zombie.
	go func() {
		if err := cmd.Wait(); err != nil {
			o.logger.Debug("note handler exited with error", zap.Error(err))
		}
	}()
	return nil
}
