package devserver

import (
	"strings"

	"github.com/alanbouo/fitlog/internal/models"
)

// nextSuggestion returns the next-exercise recommendation for a just
// logged exercise. Rule-based: each exercise in the cycle points to the
// next one, and anything unrecognized starts the cycle at squats. The
// checks run in a fixed order because some keywords overlap.
func nextSuggestion(exercise string) *models.Suggestion {
	name := strings.ToLower(strings.TrimSpace(exercise))

	switch {
	case strings.Contains(name, "squat"):
		return suggestion("Push-ups", "Great leg work! Now balance with upper body strength training.", intp(3), intp(10), nil)
	case strings.Contains(name, "push"):
		return suggestion("Plank", "Core strength follows upper body work. Hold for 30-60 seconds.", intp(3), nil, intp(45))
	case strings.Contains(name, "plank"):
		return suggestion("Lunges", "Core done! Now target your legs with lunges for balance and strength.", intp(3), intp(12), nil)
	case strings.Contains(name, "lunge"):
		return suggestion("Burpees", "Full-body explosive movement to boost your heart rate!", intp(3), intp(8), nil)
	case strings.Contains(name, "burpee"):
		return suggestion("Mountain Climbers", "Keep the cardio going with this core and cardio combo.", intp(3), nil, intp(30))
	case strings.Contains(name, "mountain"), strings.Contains(name, "climber"):
		return suggestion("Romanian Deadlifts", "Time for posterior chain strength. Focus on hamstrings and glutes.", intp(3), intp(10), nil)
	case strings.Contains(name, "deadlift"):
		return suggestion("Pull-ups or Rows", "Balance that pull movement! Target your back muscles.", intp(3), intp(8), nil)
	case strings.Contains(name, "pull"), strings.Contains(name, "row"):
		return suggestion("Dips", "Complement your pull with a push. Target triceps and chest.", intp(3), intp(10), nil)
	case strings.Contains(name, "dip"):
		return suggestion("Jumping Jacks", "Cardio finisher! Get your heart rate up with this classic move.", intp(3), intp(20), nil)
	case strings.Contains(name, "jumping"), strings.Contains(name, "jack"):
		return suggestion("Squats", "Cycle complete! Start fresh with squats for lower body strength.", intp(3), intp(15), nil)
	default:
		return suggestion("Squats", "Try squats to build lower body strength and mobility!", intp(3), intp(12), nil)
	}
}

// firstSuggestion is returned when the user has no workouts yet.
func firstSuggestion() *models.Suggestion {
	return suggestion("Start with squats", "No workouts logged yet. Great starting exercise!", nil, nil, nil)
}

func suggestion(exercise, reason string, sets, reps, duration *int) *models.Suggestion {
	return &models.Suggestion{
		Exercise: exercise,
		Reason:   reason,
		Sets:     sets,
		Reps:     reps,
		Duration: duration,
	}
}

func intp(v int) *int { return &v }
