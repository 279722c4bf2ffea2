package aptitude

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcQuestion(id string, correct int) Question {
	return Question{
		ID:         id,
		Prompt:     "pick one " + id,
		Difficulty: DifficultyMedium,
		Skill:      "Go",
		TimeLimit:  3,
		Body:       MultipleChoice{Options: []string{"a", "b", "c", "d"}, CorrectAnswer: correct},
	}
}

func openQuestion(id string, body Body) Question {
	return Question{ID: id, Prompt: "explain " + id, Difficulty: DifficultyHard, Skill: "Design", TimeLimit: 10, Body: body}
}

func TestScore_AllWrongMultipleChoice(t *testing.T) {
	test := &AptitudeTest{Questions: []Question{mcQuestion("q1", 0), mcQuestion("q2", 2)}, PassingScore: 50}
	answers := AnswerSheet{
		{QuestionID: "q1", Value: ChoiceAnswer(3)},
		{QuestionID: "q2", Value: ChoiceAnswer(1)},
	}

	res := Score(test, answers)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.Percentage)
	assert.False(t, res.Passed)
	assert.Equal(t, 0, res.PendingReview)
}

func TestScore_UngradedCountAsCorrectEvenUnanswered(t *testing.T) {
	test := &AptitudeTest{
		Questions: []Question{
			mcQuestion("q1", 0),
			openQuestion("q2", Scenario{}),
			openQuestion("q3", ShortAnswer{ExpectedAnswer: "memoization"}),
		},
		PassingScore: 70,
	}

	res := Score(test, nil)
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 67, res.Percentage)
	assert.False(t, res.Passed)
	assert.Equal(t, 2, res.PendingReview)

	require.Len(t, res.Breakdown, 3)
	assert.False(t, res.Breakdown[0].IsCorrect)
	assert.Nil(t, res.Breakdown[0].UserAnswer)
	assert.True(t, res.Breakdown[1].IsCorrect)
	assert.True(t, res.Breakdown[1].NeedsReview)
	assert.Nil(t, res.Breakdown[1].CorrectAnswer)
	require.NotNil(t, res.Breakdown[2].CorrectAnswer)
	assert.Equal(t, "memoization", res.Breakdown[2].CorrectAnswer.Text())
}

func TestScore_StrictEquality(t *testing.T) {
	test := &AptitudeTest{Questions: []Question{mcQuestion("q1", 0)}}

	res := Score(test, AnswerSheet{{QuestionID: "q1", Value: TextAnswer("0")}})
	assert.Equal(t, 0, res.Score)

	res = Score(test, AnswerSheet{{QuestionID: "q1", Value: ChoiceAnswer(0)}})
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 100, res.Percentage)
}

func TestScore_Idempotent(t *testing.T) {
	test := &AptitudeTest{
		Questions:    []Question{mcQuestion("q1", 1), openQuestion("q2", Assignment{Title: "Build"}), mcQuestion("q3", 2)},
		PassingScore: 60,
	}
	answers := AnswerSheet{{QuestionID: "q1", Value: ChoiceAnswer(1)}, {QuestionID: "q3", Value: ChoiceAnswer(0)}}

	first := Score(test, answers)
	second := Score(test, answers)
	assert.Equal(t, first, second)
	assert.Equal(t, 67, first.Percentage)
	assert.True(t, first.Passed)
}

func TestScore_PercentageInRange(t *testing.T) {
	for n := 1; n <= 7; n++ {
		qs := make([]Question, 0, n)
		answers := AnswerSheet{}
		for i := 0; i < n; i++ {
			id := string(rune('a' + i))
			qs = append(qs, mcQuestion(id, 0))
			if i%2 == 0 {
				answers = answers.Upsert(id, ChoiceAnswer(0))
			}
		}
		res := Score(&AptitudeTest{Questions: qs}, answers)
		assert.GreaterOrEqual(t, res.Percentage, 0)
		assert.LessOrEqual(t, res.Percentage, 100)
	}
}

func TestScore_EmptyTest(t *testing.T) {
	res := Score(&AptitudeTest{}, nil)
	assert.Equal(t, 0, res.Percentage)
	assert.False(t, res.Passed)
	assert.Empty(t, res.Breakdown)
}
