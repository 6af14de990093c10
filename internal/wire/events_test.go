package wire

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyticskit/go-analytics/model"
)

func TestMarshalEvent(t *testing.T) {
	e := model.NewEventBuilder("page.display").Properties(
		model.NewProperty(model.MustPropertyName("Page"), model.String("home")),
		model.NewProperty(model.MustPropertyName("count"), model.Int(3)),
		model.NewProperty(model.MustPropertyName("big"), model.Long(1<<40)),
		model.NewProperty(model.MustPropertyName("ratio"), model.Double(0.5)),
		model.NewProperty(model.MustPropertyName("flag"), model.Bool(true)),
		model.NewProperty(model.MustPropertyName("when"), model.Date(time.Unix(1700000000, 0))),
		model.NewProperty(model.MustPropertyName("tags"), model.StringArray("a", "b")),
		model.NewProperty(model.MustPropertyName("ids"), model.IntArray(1, 2)),
		model.NewProperty(model.MustPropertyName("scores"), model.DoubleArray(1.5)),
		model.NewTypedProperty(model.MustPropertyName("code"), model.String("007"), model.TypeString),
	).MustBuild()

	assert.JSONEq(t, `{"name":"page.display","data":{
		"page":"home","count":3,"big":1099511627776,"ratio":0.5,"flag":true,"when":1700000000,
		"tags":["a","b"],"ids":[1,2],"scores":[1.5],"s:code":"007"}}`, string(MarshalEvent(e)))
}

func TestMarshalEventKeepsFull64BitValues(t *testing.T) {
	e := model.NewEventBuilder("a").Properties(
		model.NewProperty(model.MustPropertyName("max"), model.Long(math.MaxInt64)),
		model.NewProperty(model.MustPropertyName("min"), model.Long(math.MinInt64)),
		model.NewProperty(model.MustPropertyName("when"), model.Date(time.Unix(1<<33, 0))),
	).MustBuild()

	assert.JSONEq(t, `{"name":"a","data":{"max":9223372036854775807,"min":-9223372036854775808,"when":8589934592}}`,
		string(MarshalEvent(e)))
}

func TestEventsRequestBody(t *testing.T) {
	body := EventsRequestBody([]string{`{"name":"a","data":{}}`, `{"name":"b","data":{"x":1}}`})
	assert.JSONEq(t, `{"events":[{"name":"a","data":{}},{"name":"b","data":{"x":1}}]}`, string(body))
	assert.JSONEq(t, `{"events":[]}`, string(EventsRequestBody(nil)))
}

func TestPropertiesRoundTrip(t *testing.T) {
	props := []model.Property{
		model.NewProperty(model.AppCrash, model.Bool(true)),
		model.NewProperty(model.AppCrashClass, model.String("runtime.Error")),
		model.NewProperty(model.MustPropertyName("n"), model.Int(-4)),
		model.NewProperty(model.MustPropertyName("l"), model.Long(1<<40)),
		model.NewProperty(model.MustPropertyName("d"), model.Double(2.25)),
		model.NewProperty(model.MustPropertyName("sa"), model.StringArray("x")),
		model.NewProperty(model.MustPropertyName("ia"), model.IntArray(1, 2)),
		model.NewProperty(model.MustPropertyName("da"), model.DoubleArray(0.5, 1)),
	}
	decoded, err := UnmarshalProperties(MarshalProperties(props))
	require.NoError(t, err)
	require.Len(t, decoded, len(props))
	for i, p := range props {
		assert.True(t, p.Name().Equal(decoded[i].Name()))
		assert.True(t, p.Value().Equal(decoded[i].Value()), "value of %s", p.Name())
	}
}

func TestUnmarshalPropertiesSkipsUnsupportedEntries(t *testing.T) {
	decoded, err := UnmarshalProperties([]byte(
		`{"ok":"yes","null_value":null,"obj":{"a":1},"mixed":[1,"a"],"m_reserved":1,"9bad":2,"also_ok":1}`))
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, "ok", decoded[0].Name().Key())
	assert.Equal(t, "also_ok", decoded[1].Name().Key())

	_, err = UnmarshalProperties([]byte(`[1]`))
	assert.Error(t, err)
}
