package core

import "strings"

var adviceHandlers = map[Category]func(query string) string{
	CategoryDiet:     dietAdvice,
	CategoryExercise: exerciseAdvice,
	CategoryMental:   mentalAdvice,
	CategorySleep:    sleepAdvice,
	CategoryGeneral:  generalAdvice,
}

// Advice returns the detailed guidance block for category.  Some categories
// refine their answer on a keyword in query ("weight loss", "beginner",
// "stress", "insomnia").  Unknown categories get the general block.
func Advice(category Category, query string) string {
	h, ok := adviceHandlers[category]
	if !ok {
		h = generalAdvice
	}
	return h(strings.ToLower(query))
}

// AdviceFor categorizes query and returns the matching block.
func AdviceFor(query string) (Category, string) {
	c := Categorize(query)
	return c, Advice(c, query)
}

func dietAdvice(query string) string {
	if strings.Contains(query, "weight loss") {
		return weightLossAdvice
	}
	return nutritionAdvice
}

func exerciseAdvice(query string) string {
	if strings.Contains(query, "beginner") {
		return beginnerExerciseAdvice
	}
	return fitnessAdvice
}

func mentalAdvice(query string) string {
	if strings.Contains(query, "stress") {
		return stressAdvice
	}
	return wellbeingAdvice
}

func sleepAdvice(query string) string {
	if strings.Contains(query, "insomnia") {
		return insomniaAdvice
	}
	return sleepQualityAdvice
}

func generalAdvice(string) string { return holisticAdvice }

const weightLossAdvice = `Let me help you with a sustainable approach to weight management! 🎯

Here's a comprehensive guide:

1. **Smart Eating Habits**:
   - Eat mindfully and slowly
   - Use smaller plates
   - Stay hydrated
   - Plan your meals ahead

2. **Balanced Nutrition**:
   - Focus on whole foods
   - Include protein in each meal
   - Choose complex carbs
   - Add healthy fats

3. **Practical Tips**:
   - Keep a food journal
   - Cook at home more often
   - Read nutrition labels
   - Stay consistent

Would you like specific meal suggestions or a sample meal plan?`

const nutritionAdvice = `Let's talk about nourishing your body! 🥗

Here's a balanced approach to nutrition:

1. **Build Your Plate**:
   - 50% vegetables and fruits
   - 25% lean proteins
   - 25% whole grains
   - Add healthy fats

2. **Smart Choices**:
   - Choose whole foods over processed
   - Include a variety of colors
   - Stay hydrated
   - Practice portion control

3. **Meal Planning Tips**:
   - Plan your meals ahead
   - Prep ingredients in advance
   - Keep healthy snacks handy
   - Listen to your body's cues

What specific aspect of nutrition would you like to explore?`

const beginnerExerciseAdvice = `Let's start your fitness journey! 🌟

Here's a beginner-friendly plan:

1. **Week 1-2: Foundation**
   - 10-15 minute walks daily
   - Basic stretching
   - Bodyweight squats (10 reps)
   - Modified push-ups

2. **Week 3-4: Building Up**
   - 20-30 minute walks
   - Basic yoga poses
   - Lunges (10 each leg)
   - Plank (20 seconds)

3. **Week 5-6: Progress**
   - 30-45 minute walks
   - Full body stretches
   - Basic circuit training
   - Light cardio

Remember: Start slow and build gradually! Would you like specific exercise demonstrations?`

const fitnessAdvice = `Let's get moving! 💪

Here's a balanced fitness approach:

1. **Cardiovascular Exercise**:
   - Walking, running, cycling
   - Swimming, dancing
   - 150 minutes weekly
   - Mix of intensities

2. **Strength Training**:
   - Bodyweight exercises
   - Light weights
   - 2-3 times weekly
   - Focus on form

3. **Flexibility & Balance**:
   - Daily stretching
   - Yoga or Pilates
   - Balance exercises
   - Mind-body connection

What's your current fitness level? I can provide more specific recommendations!`

const stressAdvice = `Let's manage stress together! 🧘‍♀️

Here are effective stress management techniques:

1. **Quick Relief**:
   - Deep breathing exercises
   - Progressive muscle relaxation
   - Mindful meditation
   - Quick physical activity

2. **Daily Practices**:
   - Regular exercise
   - Adequate sleep
   - Healthy diet
   - Social connections

3. **Long-term Strategies**:
   - Time management
   - Setting boundaries
   - Regular self-care
   - Professional support if needed

Would you like specific relaxation techniques or a daily stress management plan?`

const wellbeingAdvice = `Let's focus on your mental wellbeing! 🌟

Here's a comprehensive approach:

1. **Daily Practices**:
   - Meditation or mindfulness
   - Regular exercise
   - Quality sleep
   - Social connections

2. **Emotional Wellbeing**:
   - Journaling
   - Creative expression
   - Nature connection
   - Gratitude practice

3. **Professional Support**:
   - Therapy options
   - Support groups
   - Crisis resources
   - Self-help tools

What specific aspect would you like to explore?`

const insomniaAdvice = `Let's improve your sleep! 😴

Here's a comprehensive guide for better sleep:

1. **Sleep Environment**:
   - Cool, dark, quiet room
   - Comfortable mattress
   - Blackout curtains
   - White noise if needed

2. **Bedtime Routine**:
   - Consistent sleep schedule
   - Relaxing activities
   - Limit screen time
   - Avoid stimulants

3. **Sleep Hygiene**:
   - No caffeine after 2 PM
   - Limit alcohol
   - Regular exercise
   - Light dinner

Would you like specific relaxation techniques or a detailed sleep schedule?`

const sleepQualityAdvice = `Let's enhance your sleep quality! 🌙

Here's a practical sleep improvement guide:

1. **Sleep Schedule**:
   - Consistent bedtime
   - Regular wake time
   - 7-9 hours sleep
   - Weekend consistency

2. **Sleep Environment**:
   - Cool temperature (65-68°F)
   - Dark room
   - Quiet space
   - Comfortable bedding

3. **Pre-sleep Routine**:
   - Relaxing activities
   - No screens 1 hour before bed
   - Light reading
   - Warm bath/shower

What specific sleep challenges are you facing?`

const holisticAdvice = `Let's focus on your overall wellbeing! 🌟

Here's a holistic approach to health:

1. **Physical Health**:
   - Regular exercise
   - Balanced diet
   - Adequate sleep
   - Regular check-ups

2. **Mental Wellbeing**:
   - Stress management
   - Social connections
   - Hobbies and interests
   - Professional support if needed

3. **Preventive Care**:
   - Regular screenings
   - Vaccinations
   - Dental care
   - Vision checks

4. **Lifestyle Factors**:
   - No smoking
   - Limited alcohol
   - Safe sun exposure
   - Regular physical activity

What specific aspect would you like to explore?`
