package houses

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/candymap/internal/apperr"
)

func decodePayload(t *testing.T, body string) Payload {
	t.Helper()
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestPayloadValidateAccepts(t *testing.T) {
	cases := map[string]struct {
		body string
		want Submission
	}{
		"candy":          {`{"candy":true,"candyType":0.5,"candyCount":1}`, GaveCandy(0.5, 1)},
		"candy zeros":    {`{"candy":true,"candyType":0,"candyCount":0}`, GaveCandy(0, 0)},
		"not home":       {`{"candy":false,"noCandyReason":"notHome"}`, NoCandyGiven(NotHome)},
		"no candy":       {`{"candy":false,"noCandyReason":"noCandy"}`, NoCandyGiven(NoCandy)},
		"unknown fields": {`{"candy":false,"noCandyReason":"noCandy","mood":"spooky"}`, NoCandyGiven(NoCandy)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := decodePayload(t, tc.body).Validate()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPayloadValidateRejects(t *testing.T) {
	cases := map[string]string{
		"empty":                 `{}`,
		"candy missing type":    `{"candy":true,"candyCount":0.5}`,
		"candy missing count":   `{"candy":true,"candyType":0.5}`,
		"candy type above one":  `{"candy":true,"candyType":1.5,"candyCount":0.5}`,
		"candy count negative":  `{"candy":true,"candyType":0.5,"candyCount":-0.1}`,
		"candy with reason":     `{"candy":true,"candyType":0.5,"candyCount":0.5,"noCandyReason":"notHome"}`,
		"no candy no reason":    `{"candy":false}`,
		"no candy bad reason":   `{"candy":false,"noCandyReason":"noHome"}`,
		"no candy with ratings": `{"candy":false,"noCandyReason":"noCandy","candyType":0.5}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodePayload(t, body).Validate()
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestPayloadRejectsWrongTypes(t *testing.T) {
	var p Payload
	assert.Error(t, json.Unmarshal([]byte(`{"candy":"yes"}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"candy":true,"candyType":"lots","candyCount":1}`), &p))
}

func TestSubmissionJSONShapes(t *testing.T) {
	b, err := json.Marshal(GaveCandy(0.25, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"candy":true,"candyType":0.25,"candyCount":0}`, string(b))

	b, err = json.Marshal(NoCandyGiven(NotHome))
	require.NoError(t, err)
	assert.JSONEq(t, `{"candy":false,"noCandyReason":"notHome"}`, string(b))

	var s Submission
	require.NoError(t, json.Unmarshal([]byte(`{"candy":true,"candyType":1,"candyCount":0.5}`), &s))
	assert.Equal(t, GaveCandy(1, 0.5), s)
	assert.Error(t, json.Unmarshal([]byte(`{"candy":true}`), &s))
}
