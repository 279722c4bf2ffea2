package aptitude

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestQuestion_JSONWireShape(t *testing.T) {
	q := mcQuestion("q1", 0)
	data, err := json.Marshal(q)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "multiple_choice", wire["type"])
	assert.Equal(t, float64(0), wire["correctAnswer"])
	assert.Len(t, wire["options"], 4)
	assert.NotContains(t, wire, "assignmentTitle")

	var back Question
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, q, back)
}

func TestQuestion_DecodeAssignment(t *testing.T) {
	raw := `{
		"id": "assignment_1",
		"type": "assignment",
		"question": "Build a todo app",
		"difficulty": "medium",
		"skill": "React",
		"timeLimit": 60,
		"assignmentTitle": "Build a todo app",
		"assignmentDescription": "CRUD with local storage",
		"deliverables": ["repo link"]
	}`
	var q Question
	require.NoError(t, json.Unmarshal([]byte(raw), &q))

	a, ok := q.Body.(Assignment)
	require.True(t, ok)
	assert.Equal(t, "CRUD with local storage", a.Description)
	assert.Equal(t, []string{"repo link"}, a.Deliverables)
	assert.False(t, q.Graded())
}

func TestQuestion_DecodeRejectsBrokenInvariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no options", `{"id":"q","type":"multiple_choice","correctAnswer":0}`},
		{"answer out of range", `{"id":"q","type":"multiple_choice","options":["a","b"],"correctAnswer":2}`},
		{"answer not an index", `{"id":"q","type":"multiple_choice","options":["a","b"],"correctAnswer":"a"}`},
		{"fractional index", `{"id":"q","type":"multiple_choice","options":["a","b"],"correctAnswer":0.5}`},
		{"unknown type", `{"id":"q","type":"essay"}`},
		{"missing id", `{"type":"scenario"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Question
			err := json.Unmarshal([]byte(tt.raw), &q)
			assert.ErrorIs(t, err, ErrInvalidQuestion)
		})
	}
}

func TestQuestion_YAML(t *testing.T) {
	src := `
- id: q1
  type: multiple_choice
  question: Which keyword starts a goroutine?
  options: [go, async, spawn, thread]
  correctAnswer: 0
  difficulty: easy
  skill: Go
- id: q2
  type: short_answer
  question: What does defer do?
  correctAnswer: runs at function return
  difficulty: easy
  skill: Go
`
	var qs []Question
	require.NoError(t, yaml.Unmarshal([]byte(src), &qs))
	require.Len(t, qs, 2)
	assert.Equal(t, MultipleChoice{Options: []string{"go", "async", "spawn", "thread"}, CorrectAnswer: 0}, qs[0].Body)
	assert.Equal(t, ShortAnswer{ExpectedAnswer: "runs at function return"}, qs[1].Body)

	out, err := yaml.Marshal(qs)
	require.NoError(t, err)
	assert.Contains(t, string(out), "correctAnswer: 0")
}

func TestAnswerValue_JSON(t *testing.T) {
	var sheet AnswerSheet
	require.NoError(t, json.Unmarshal([]byte(`[{"questionId":"q1","answer":2},{"questionId":"q2","answer":"text"}]`), &sheet))

	i, ok := sheet[0].Value.Choice()
	require.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = sheet[1].Value.Choice()
	assert.False(t, ok)
	assert.Equal(t, "text", sheet[1].Value.Text())

	var v AnswerValue
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &v))
	assert.Error(t, json.Unmarshal([]byte(`true`), &v))
}

func TestCandidateView_HidesAnswers(t *testing.T) {
	test := sampleTest()
	data, err := json.Marshal(test.CandidateView())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "correctAnswer")
	assert.Contains(t, string(data), `"options"`)
}
