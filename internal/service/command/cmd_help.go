package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/voxbot/internal/core"
)

type HelpCommand struct {
	commands []core.Command
}

func NewHelpCommand(commands []core.Command) *HelpCommand {
	return &HelpCommand{commands: commands}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List available commands"
}

func (c *HelpCommand) Execute(_ context.Context, _ string, _ []string) (string, error) {
	all := append([]core.Command{c}, c.commands...)
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })

	lines := []string{"Available commands:"}
	for _, cmd := range all {
		lines = append(lines, fmt.Sprintf("/%s - %s", cmd.Name(), cmd.Description()))
	}
	return strings.Join(lines, "\n"), nil
}
