package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	SymbolPass    = "✓"
	SymbolFail    = "✗"
	SymbolArrow   = "→"
	SymbolDot     = "•"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"

	Indent = "  "
)

func Header(title string) {
	width := 60
	padding := (width - len(title) - 2) / 2
	border := strings.Repeat("═", width)

	fmt.Println()
	fmt.Printf("╔%s╗\n", border)
	fmt.Printf("║%s %s %s║\n", strings.Repeat(" ", padding), title, strings.Repeat(" ", width-padding-len(title)-2))
	fmt.Printf("╚%s╝\n", border)
	fmt.Println()
}

func Section(title string) {
	fmt.Printf("\n━━ %s ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n", title)
}

func ModelHeader(name string) {
	fmt.Printf("\n┌─ %s %s\n", name, strings.Repeat("─", 58-len(name)))
}

func Infof(format string, args ...any) {
	fmt.Printf("%s%s %s\n", Indent, SymbolInfo, fmt.Sprintf(format, args...))
}

func Successf(format string, args ...any) {
	fmt.Printf("%s%s %s\n", Indent, SymbolPass, fmt.Sprintf(format, args...))
}

func Failf(format string, args ...any) {
	fmt.Printf("%s%s %s\n", Indent, SymbolFail, fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...any) {
	fmt.Printf("%s%s %s\n", Indent, SymbolWarning, fmt.Sprintf(format, args...))
}

func Linef(format string, args ...any) {
	fmt.Printf("%s%s\n", Indent, fmt.Sprintf(format, args...))
}

func KeyValue(key, value string) {
	fmt.Printf("%s%-20s %s\n", Indent, key+":", value)
}

func KeyValuePairs(pairs ...string) {
	if len(pairs)%2 != 0 {
		return
	}
	var parts []string
	for i := 0; i < len(pairs); i += 2 {
		parts = append(parts, fmt.Sprintf("%s: %s", pairs[i], pairs[i+1]))
	}
	fmt.Printf("%s%s\n", Indent, strings.Join(parts, "  │  "))
}

func StatusLinef(status bool, format string, args ...any) {
	symbol := SymbolPass
	if !status {
		symbol = SymbolFail
	}
	fmt.Printf("%s%s %s\n", Indent, symbol, fmt.Sprintf(format, args...))
}

func Blank() {
	fmt.Println()
}

func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}

// FormatMillis renders a latency figure with fixed three decimals;
// exported results are pinned to this precision.
func FormatMillis(ms float64) string {
	return fmt.Sprintf("%.3fms", ms)
}

// FormatThroughput renders inferences per second with fixed two
// decimals.
func FormatThroughput(perSecond float64) string {
	return fmt.Sprintf("%.2f inf/s", perSecond)
}

func FormatCount(count int) string {
	if count < 1000 {
		return strconv.Itoa(count)
	}
	if count < 1_000_000 {
		return fmt.Sprintf("%.2fk", float64(count)/1000)
	}
	return fmt.Sprintf("%.2fM", float64(count)/1_000_000)
}

func FormatShape(shape []int64) string {
	if len(shape) == 0 {
		return "-"
	}
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.FormatInt(d, 10)
	}
	return strings.Join(parts, "×")
}

func Truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}

func TruncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	parts := strings.Split(path, "/")
	if len(parts) <= 2 {
		return path[:maxLen-3] + "..."
	}
	return ".../" + parts[len(parts)-1]
}
