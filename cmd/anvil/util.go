package main

import (
	"errors"
	"os"
)

// readSource resolves the program text from either a positional file
// argument or the --code flag.
func readSource(code string, args []string) (string, error) {
	fileProvided := len(args) > 0 && args[0] != ""
	if code != "" && fileProvided {
		return "", errors.New("multiple input sources specified")
	}
	if fileProvided {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if code == "" {
		return "", errors.New("no input provided: pass a file or use --code")
	}
	return code, nil
}
