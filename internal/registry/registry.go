package registry

import (
	"github.com/abakedjoetato/Fbtrial-sub001/internal/types"
)

// Commands holds every registered command, keyed by name. Command packages
// register themselves from init so a blank import is all it takes to enable
// a category.
var Commands = make(map[string]*types.Command)

func RegisterCommand(cmd *types.Command) {
	Commands[cmd.Name] = cmd
}
