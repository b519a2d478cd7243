package commands

import "fmt"

// pluralize returns "1 template" or "3 templates".
func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

func formatQuality(total, passed, failed, warnings int) string {
	return fmt.Sprintf("%d checks, %d passed, %d failed, %d warnings", total, passed, failed, warnings)
}
