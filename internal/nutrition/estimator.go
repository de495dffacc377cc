// Package nutrition turns a meal photo's file name into a plausible, fully
// deterministic nutrition estimate. No image is inspected.
package nutrition

import (
	"math"
	"unicode/utf16"

	"github.com/fitdeck/fitdeck/internal/fitness"
)

// Estimate holds whole-number nutrition values for one meal.
type Estimate struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Fiber    float64
	Sugar    float64
	Sodium   float64
}

// Nutrition returns the estimate in gateway order.
func (e Estimate) Nutrition() fitness.Nutrition {
	return fitness.Nutrition{e.Calories, e.Carbs, e.Protein, e.Fat, e.Fiber, e.Sugar, e.Sodium}
}

var baseCalories = [3]int{300, 500, 700}

// FromFileName derives nutrition values from fileName. The same name always
// yields the same estimate.
func FromFileName(fileName string) Estimate {
	seed := charSum(fileName) % 100

	mealSize := seed%3 + 1
	variance := seed%200 - 100
	calories := math.Max(200, float64(baseCalories[mealSize-1]+variance))

	proteinRatio := 0.25 + float64(seed%10)/100
	carbsRatio := 0.45 + float64(seed%15)/100
	fatRatio := 1 - proteinRatio - carbsRatio

	protein := calories * proteinRatio / 4
	carbs := calories * carbsRatio / 4
	fat := calories * fatRatio / 9

	return Estimate{
		Calories: math.Round(calories),
		Protein:  math.Round(protein),
		Carbs:    math.Round(carbs),
		Fat:      math.Round(fat),
		Fiber:    math.Round(clamp(carbs*0.15, 2, 15)),
		Sugar:    math.Round(clamp(carbs*0.30, 5, 30)),
		Sodium:   math.Round(clamp(calories*1.5, 200, 1500)),
	}
}

// charSum adds up the UTF-16 code units of s.
func charSum(s string) int {
	sum := 0
	for _, u := range utf16.Encode([]rune(s)) {
		sum += int(u)
	}
	return sum
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
