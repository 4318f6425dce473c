package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const errorCommandFormat = "%w: %s %s: %v"

// CommandSource runs an external tree-printing command and captures its standard output.
type CommandSource struct {
	Name      string
	Arguments []string
	Directory string
	// Stderr receives the command's standard error in addition to it being kept for error reports.
	Stderr io.Writer
}

// List runs the command to completion and returns everything it printed.
//
// #nosec G204
func (source *CommandSource) List(ctx context.Context) (string, error) {
	command := exec.CommandContext(ctx, source.Name, source.Arguments...)
	command.Dir = source.Directory

	var standardOutput bytes.Buffer
	var standardError bytes.Buffer
	command.Stdout = &standardOutput
	command.Stderr = &standardError
	if source.Stderr != nil {
		command.Stderr = io.MultiWriter(&standardError, source.Stderr)
	}

	if runError := command.Run(); runError != nil {
		cause := runError
		if detail := strings.TrimSpace(standardError.String()); detail != "" {
			cause = fmt.Errorf("%w (%s)", runError, detail)
		}
		return "", fmt.Errorf(errorCommandFormat, ErrCommandFailed, source.Name, strings.Join(source.Arguments, " "), cause)
	}
	return standardOutput.String(), nil
}
