package core

import (
	"sync"
)

// CommandHandler handles one host command. param is the parameter byte
// for commands that take one and zero otherwise.
type CommandHandler func(param byte) error

// Command is one entry of the host command alphabet
type Command struct {
	Code    byte
	Name    string
	Format  string // parameter description for the dictionary, e.g. "value=%c"
	Params  uint8  // parameter bytes read after the command byte (0 or 1)
	Handler CommandHandler
}

// CommandRegistry maps command bytes to handlers
type CommandRegistry struct {
	mu         sync.RWMutex
	commands   map[byte]*Command
	order      []byte
	dictionary string
}

// NewCommandRegistry creates an empty registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[byte]*Command),
	}
}

// Register adds a command. A byte can only be registered once; later
// registrations return the existing entry unchanged.
func (r *CommandRegistry) Register(code byte, name string, format string, handler CommandHandler) *Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cmd, exists := r.commands[code]; exists {
		return cmd
	}

	cmd := &Command{
		Code:    code,
		Name:    name,
		Format:  format,
		Handler: handler,
	}
	if format != "" {
		cmd.Params = 1
	}

	r.commands[code] = cmd
	r.order = append(r.order, code)
	r.rebuildDictionary()

	return cmd
}

// GetCommand retrieves a command by its byte
func (r *CommandRegistry) GetCommand(code byte) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[code]
	return cmd, ok
}

// Count returns the number of registered commands
func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Commands returns the registered commands in registration order
func (r *CommandRegistry) Commands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmds := make([]*Command, 0, len(r.order))
	for _, code := range r.order {
		cmds = append(cmds, r.commands[code])
	}
	return cmds
}

// Dispatch calls the handler registered for code
func (r *CommandRegistry) Dispatch(code byte, param byte) error {
	cmd, ok := r.GetCommand(code)
	if !ok || cmd.Handler == nil {
		return ErrUnknownCommand
	}
	return cmd.Handler(param)
}

// GetDictionary returns one line per command: the byte, its name and
// parameter format
func (r *CommandRegistry) GetDictionary() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dictionary
}

// rebuildDictionary must be called with the lock held
func (r *CommandRegistry) rebuildDictionary() {
	dict := ""
	for _, code := range r.order {
		cmd := r.commands[code]
		dict += "'" + string(rune(cmd.Code)) + "' " + cmd.Name
		if cmd.Format != "" {
			dict += " " + cmd.Format
		}
		dict += "\n"
	}
	r.dictionary = dict
}
