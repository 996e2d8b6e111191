package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Options are the benchmark phases picked interactively or via flags.
type Options struct {
	Warmup bool
	Influx bool
	Stream bool
	Runs   int
}

func DefaultOptions() Options {
	return Options{Warmup: true, Influx: false, Stream: false, Runs: 0}
}

var bannerLines = []string{
	"███╗   ███╗██╗     ██████╗ ██╗   ██╗███╗   ██╗",
	"████╗ ████║██║     ██╔══██╗██║   ██║████╗  ██║",
	"██╔████╔██║██║     ██████╔╝██║   ██║██╔██╗ ██║",
	"██║╚██╔╝██║██║     ██╔══██╗██║   ██║██║╚██╗██║",
	"██║ ╚═╝ ██║███████╗██║  ██║╚██████╔╝██║ ╚████║",
	"╚═╝     ╚═╝╚══════╝╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═══╝",
}

var gradientStops = [][3]float64{
	{79, 70, 229},   // indigo #4F46E5
	{129, 92, 246},  // violet #8B5CF6
	{168, 85, 247},  // purple #A855F7
	{217, 70, 239},  // fuchsia #D946EF
	{236, 72, 153},  // pink #EC4899
	{251, 113, 133}, // rose #FB7185
}

func lerpColor(c1, c2 [3]float64, t float64) [3]float64 {
	return [3]float64{
		c1[0] + (c2[0]-c1[0])*t,
		c1[1] + (c2[1]-c1[1])*t,
		c1[2] + (c2[2]-c1[2])*t,
	}
}

func getGradientColor(t float64) [3]float64 {
	if t <= 0 {
		return gradientStops[0]
	}
	if t >= 1 {
		return gradientStops[len(gradientStops)-1]
	}

	segments := float64(len(gradientStops) - 1)
	scaled := t * segments
	idx := int(scaled)
	if idx >= len(gradientStops)-1 {
		idx = len(gradientStops) - 2
	}
	localT := scaled - float64(idx)

	return lerpColor(gradientStops[idx], gradientStops[idx+1], localT)
}

func PrintBanner() {
	fmt.Println()

	height := len(bannerLines)
	width := 0
	for _, line := range bannerLines {
		if w := len([]rune(line)); w > width {
			width = w
		}
	}

	for y, line := range bannerLines {
		runes := []rune(line)
		var result strings.Builder

		for x, r := range runes {
			diagonal := (float64(x)/float64(width))*0.5 + (float64(y)/float64(height))*0.5
			color := getGradientColor(diagonal)

			style := lipgloss.NewStyle().Foreground(lipgloss.Color(
				fmt.Sprintf("#%02X%02X%02X", int(color[0]), int(color[1]), int(color[2])),
			))
			result.WriteString(style.Render(string(r)))
		}
		fmt.Println(result.String())
	}
	fmt.Println()
}

// PromptOptions shows the interactive phase selection form.
func PromptOptions(defaultRuns int) (*Options, error) {
	opts := DefaultOptions()

	var phases []string
	runsStr := strconv.Itoa(defaultRuns)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Measured runs").
				Description("Number of timed inference calls").
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 {
						return fmt.Errorf("enter a positive integer")
					}
					return nil
				}).
				Value(&runsStr),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select benchmark phases").
				Description("Choose which phases and exports to run").
				Options(
					huh.NewOption("Warmup (recommended)", "warmup").Selected(true),
					huh.NewOption("Export samples to InfluxDB", "influx"),
					huh.NewOption("Stream samples over websocket", "stream"),
				).Value(&phases),
		),
	).WithTheme(huh.ThemeCatppuccin()).WithKeyMap(huh.NewDefaultKeyMap())

	if err := form.Run(); err != nil {
		return nil, err
	}

	opts.Warmup = slices.Contains(phases, "warmup")
	opts.Influx = slices.Contains(phases, "influx")
	opts.Stream = slices.Contains(phases, "stream")
	opts.Runs, _ = strconv.Atoi(strings.TrimSpace(runsStr))

	return &opts, nil
}

// PrintSummary echoes the selected options before the run starts.
func PrintSummary(opts *Options) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	enabledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	disabledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	formatStatus := func(enabled bool) string {
		if enabled {
			return enabledStyle.Render("enabled")
		}
		return disabledStyle.Render("disabled")
	}

	fmt.Println(headerStyle.Render("Benchmark Options"))
	fmt.Println(strings.Repeat("─", 40))

	fmt.Printf("%s %s\n", labelStyle.Render("Runs:"), valueStyle.Render(strconv.Itoa(opts.Runs)))
	fmt.Printf("%s %s\n", labelStyle.Render("Warmup:"), formatStatus(opts.Warmup))
	fmt.Printf("%s %s\n", labelStyle.Render("Influx:"), formatStatus(opts.Influx))
	fmt.Printf("%s %s\n", labelStyle.Render("Stream:"), formatStatus(opts.Stream))

	fmt.Println(strings.Repeat("─", 40))
	fmt.Println()
}
