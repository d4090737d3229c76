package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/trisport/coachd/internal/records"
)

// StrengthGoalNone is the sentinel profile value meaning the user wants
// no complementary lifting section in generated plans.
const StrengthGoalNone = "None"

// EquipmentList renders the enabled equipment flags as a human readable
// comma-separated list. Keys are camelCase flags ("pullBuoy",
// "gpsWatch") and get split on the uppercase boundaries and lowercased.
// Keys are sorted so the same profile always renders the same string.
func EquipmentList(equipment map[string]bool) string {
	var keys []string
	for key, enabled := range equipment {
		if enabled {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return "No special equipment available"
	}
	sort.Strings(keys)

	humanized := make([]string, 0, len(keys))
	for _, key := range keys {
		humanized = append(humanized, humanizeCamelCase(key))
	}
	return strings.Join(humanized, ", ")
}

func humanizeCamelCase(key string) string {
	var b strings.Builder
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BuildPrompt renders the workout generation prompt from the user's
// sport profile, the daily inputs for this session, the most recent
// generated primary workout (nil when there is none) and optional
// free-text feedback on a previous generation attempt. The output is a
// pure function of its inputs: same inputs, byte-identical prompt.
func BuildPrompt(
	profile records.ProfileSnapshot,
	daily records.DailyStateSnapshot,
	previous *records.WorkoutRecord,
	feedback string,
) string {
	var b strings.Builder

	fmt.Fprintf(&b,
		"As an expert AI %s coach, design a personalized %s workout plan for one session based on the following user profile and recent daily data.\n",
		profile.Sport, profile.Sport,
	)
	b.WriteString("Consider the user's current fitness state, their overall goals, and the available equipment for this specific workout.\n")

	if previous != nil {
		previousSport := previous.Sport
		if previousSport == "" {
			previousSport = "N/A"
		}
		previousFocus := "N/A"
		if previous.DailyState != nil && previous.DailyState.SessionFocus != "" {
			previousFocus = previous.DailyState.SessionFocus
		}
		b.WriteString("\nPrevious Workout Context:\n")
		fmt.Fprintf(&b, "- The last generated %s workout was on %s.\n", previousSport, previous.Date)
		fmt.Fprintf(&b, "- Its primary focus was %q.\n", previousFocus)
		b.WriteString("IMPORTANT: Design the current workout to be complementary and avoid giving a workout of the exact same primary focus or intensity as the previous one, unless specifically requested in additional feedback. For example, if the last was \"Speed\", consider \"Endurance\" or \"Threshold\" for today.\n")
	}

	b.WriteString("\nUser Sport Profile (from Settings):\n")
	fmt.Fprintf(&b, "- Primary Sport Focus: %s\n", profile.Sport)
	fmt.Fprintf(&b, "- Primary Sport Goal: %s\n", profile.SportGoal)
	fmt.Fprintf(&b, "- Sport Level: %s\n", profile.SkillLevel)
	fmt.Fprintf(&b, "- Desired Workout Days Per Week for Main Sport: %d\n", profile.SessionsPerWeek)
	fmt.Fprintf(&b, "- Desired Workout Duration per session: %d minutes\n", profile.SessionDurationMin)
	fmt.Fprintf(&b, "- Available Equipment: %s\n", EquipmentList(profile.Equipment))

	b.WriteString("\nRecent Health and Performance Data (Day-to-Day Inputs):\n")
	fmt.Fprintf(&b, "- Desired Workout Distance/Volume for THIS session: %s\n", daily.DesiredDistance)
	fmt.Fprintf(&b, "- Primary Workout Focus for THIS session: %s\n", daily.SessionFocus)
	fmt.Fprintf(&b, "- Recent Performance Metric: %s\n", daily.RecentPerformance)
	fmt.Fprintf(&b, "- Resting Heart Rate: %d bpm\n", daily.RestingHeartRate)
	fmt.Fprintf(&b, "- Sleep Hours (last night): %s hours\n", formatFloat(daily.SleepHours))
	fmt.Fprintf(&b, "- Sleep Score (out of 100): %d\n", daily.SleepScore)
	fmt.Fprintf(&b, "- Energy Score (out of 100): %d\n", daily.EnergyScore)

	if feedback != "" {
		b.WriteString("\nIMPORTANT: The user has provided additional feedback for this workout generation. Please incorporate the following:\n")
		fmt.Fprintf(&b, "Feedback: %q\n", feedback)
		b.WriteString("\nPlease use this feedback to adjust, refine, or regenerate the workout plan accordingly. For example, if the feedback indicates low energy, suggest a lighter workout; if it asks for a specific drill, include it.\n")
	}

	fmt.Fprintf(&b, "\nPlease provide a detailed %s workout plan. The plan should be challenging yet appropriate for the user's level and recent data.\n", profile.Sport)
	b.WriteString("The workout should typically include:\n")
	fmt.Fprintf(&b, "- A warm-up (5-10 minutes, e.g., dynamic stretches, light cardio specific to %s)\n", profile.Sport)
	b.WriteString("- 3-5 main sets (e.g., technique drills, endurance sets, speed/power work, strength training, flexibility exercises).\n")
	b.WriteString("  For each set, specify recommended duration/repetitions/distance, appropriate intervals (if applicable), and the primary focus (e.g., \"focus on form\", \"build stamina\", \"increase power\").\n")
	fmt.Fprintf(&b, "  Clearly specify the exercises, techniques, or movements where applicable, specific to %s.\n", profile.Sport)
	b.WriteString("- A cool-down (5-10 minutes, easy movements and stretching)\n")

	if profile.StrengthGoal != "" && profile.StrengthGoal != StrengthGoalNone {
		fmt.Fprintf(&b,
			"The user also has a complimentary lifting goal: %q. Please design a short (e.g., 15-20 min) strength/mobility session relevant to this goal. This should be a distinct section in the workout plan, clearly marked as %q.\n",
			profile.StrengthGoal, HeadingStrength,
		)
	}

	fmt.Fprintf(&b,
		"\nStructure the workout plan clearly using Markdown, with prominent headings for sections (e.g., %q, \"Main Set\", %q, %q). Use standard %s terminology.\n",
		HeadingWarmUp, HeadingCoolDown, HeadingStrength, profile.Sport,
	)
	b.WriteString("Ensure the total workout duration aligns closely with the user's desired workout duration, *including* the complimentary lifting if requested and included.\n")

	return b.String()
}

// formatFloat drops a trailing ".0" so whole-number sleep hours render
// as "7", not "7.0".
func formatFloat(f float64) string {
	s := fmt.Sprintf("%.1f", f)
	return strings.TrimSuffix(s, ".0")
}
