package aptitude

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// AnswerValue is either a selected option index or free text. The zero value
// is an empty text answer.
type AnswerValue struct {
	choice *int
	text   string
}

func ChoiceAnswer(index int) AnswerValue {
	return AnswerValue{choice: &index}
}

func TextAnswer(text string) AnswerValue {
	return AnswerValue{text: text}
}

// Choice returns the option index when the value is a selection.
func (v AnswerValue) Choice() (int, bool) {
	if v.choice == nil {
		return 0, false
	}
	return *v.choice, true
}

func (v AnswerValue) Text() string { return v.text }

// Equal is strict: a choice never equals text, even "0" and 0.
func (v AnswerValue) Equal(o AnswerValue) bool {
	a, aok := v.Choice()
	b, bok := o.Choice()
	if aok || bok {
		return aok && bok && a == b
	}
	return v.text == o.text
}

func (v AnswerValue) String() string {
	if i, ok := v.Choice(); ok {
		return strconv.Itoa(i)
	}
	return v.text
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if i, ok := v.Choice(); ok {
		return json.Marshal(i)
	}
	return json.Marshal(v.text)
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextAnswer(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("answer must be a string or an option index: %w", err)
	}
	i, err := n.Int64()
	if err != nil {
		return errors.New("answer option index must be an integer")
	}
	*v = ChoiceAnswer(int(i))
	return nil
}

func (v AnswerValue) MarshalYAML() (interface{}, error) {
	if i, ok := v.Choice(); ok {
		return i, nil
	}
	return v.text, nil
}

func (v *AnswerValue) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!int" {
		var i int
		if err := value.Decode(&i); err != nil {
			return err
		}
		*v = ChoiceAnswer(i)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*v = TextAnswer(s)
	return nil
}

type Answer struct {
	QuestionID string      `json:"questionId" yaml:"questionId"`
	Value      AnswerValue `json:"answer" yaml:"answer"`
}

// AnswerSheet holds at most one answer per question id.
type AnswerSheet []Answer

// Upsert replaces the answer for questionID or appends a new one. The
// receiver is not modified.
func (s AnswerSheet) Upsert(questionID string, value AnswerValue) AnswerSheet {
	out := make(AnswerSheet, len(s), len(s)+1)
	copy(out, s)
	for i := range out {
		if out[i].QuestionID == questionID {
			out[i].Value = value
			return out
		}
	}
	return append(out, Answer{QuestionID: questionID, Value: value})
}

func (s AnswerSheet) Lookup(questionID string) (AnswerValue, bool) {
	for _, a := range s {
		if a.QuestionID == questionID {
			return a.Value, true
		}
	}
	return AnswerValue{}, false
}
