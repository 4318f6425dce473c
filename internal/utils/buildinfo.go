// Package utils provides helper functions, including version retrieval.
package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	gitExecutableName  = "git"
	gitDescribeCommand = "describe"
)

// Version may be set at link time with -ldflags "-X github.com/temirov/dirinfo/internal/utils.Version=v1.2.3".
var Version = EmptyString

var gitDescribeArgumentSets = [][]string{
	{gitDescribeCommand, "--tags", "--exact-match"},
	{gitDescribeCommand, "--tags", "--long", "--dirty"},
}

// GetApplicationVersion reports the link-time version, then the module version from
// the build information, then the nearest git tag of the checkout the binary runs in.
func GetApplicationVersion() string {
	if Version != EmptyString {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != EmptyString && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}

	repositoryDirectory, repositoryError := findGitDirectory(".")
	if repositoryError != nil {
		return unknownVersion
	}
	for _, describeArguments := range gitDescribeArgumentSets {
		// #nosec G204
		describeCommand := exec.Command(gitExecutableName, describeArguments...)
		describeCommand.Dir = repositoryDirectory
		describeOutput, describeError := describeCommand.Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}
	return unknownVersion
}

// findGitDirectory walks upward from startDirectory and returns the first
// directory that contains a .git folder.
func findGitDirectory(startDirectory string) (string, error) {
	absoluteStartDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return EmptyString, fmt.Errorf("failed to get absolute path for %s: %w", startDirectory, absoluteError)
	}

	for currentDirectory := absoluteStartDirectory; ; {
		fileInformation, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if statError == nil && fileInformation.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}
	return EmptyString, fmt.Errorf(".git directory not found in or above %s", absoluteStartDirectory)
}
