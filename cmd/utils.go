package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/handreceipt/hr-cli/pkg/ui"
)

// printProvenance notes when a listing came from the cache rather than a
// live response
func printProvenance(fromCache, offline bool, age time.Duration) {
	if offline {
		fmt.Println(ui.FormatOffline("Server unreachable; showing cached data from " + formatAge(age) + " ago"))
		return
	}
	if fromCache {
		fmt.Println(ui.FormatMuted("cached " + formatAge(age) + " ago"))
	}
}

// formatAge renders a duration in the largest useful unit
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// confirm asks a yes/no question on stdin and treats anything but "y" as no
func confirm(prompt string) bool {
	fmt.Print(ui.StyleWarning.Render(prompt + " (y/N): "))
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}

// GetPreferredEditor returns the editor command from the environment
func GetPreferredEditor() string {
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}
