package command

import (
	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/internal/service/session"
)

func NewCommands(store *session.Store, resetters ...ContextResetter) []core.Command {
	cmds := []core.Command{
		NewResetCommand(store, "reset", resetters...),
		NewResetCommand(store, "forget", resetters...),
	}
	return append(cmds, NewHelpCommand(cmds))
}
