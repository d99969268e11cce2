package ui

import (
	"os/exec"
	"strings"
	"sync"
)

const fallbackLogo = "N A B S E A R C H"

var (
	logoOnce sync.Once
	logoText string
)

// logo returns the banner for the index view, rendered by figlet when it is
// installed. The result is computed once per process.
func logo() string {
	logoOnce.Do(func() {
		logoText = createLogo(exec.Command("figlet", "-f", "slant", "nabsearch").Output)
	})
	return logoText
}

func createLogo(run func() ([]byte, error)) string {
	output, err := run()
	if err != nil || len(strings.TrimSpace(string(output))) == 0 {
		return fallbackLogo
	}
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, strings.TrimRight(line, " "))
		}
	}
	return strings.Join(kept, "\n")
}
