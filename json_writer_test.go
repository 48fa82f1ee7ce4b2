package fintrack

import (
	"encoding/json"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	tests := []struct {
		name  string
		build func(w *jsonObjectWriter)
		want  string
	}{
		{
			name:  "empty",
			build: func(w *jsonObjectWriter) {},
			want:  `{}`,
		},
		{
			name: "keeps insertion order",
			build: func(w *jsonObjectWriter) {
				w.Append("symbol", "AAPL").Append("shares", Q(10))
			},
			want: `{"symbol":"AAPL","shares":"10"}`,
		},
		{
			name: "embeds raw fields",
			build: func(w *jsonObjectWriter) {
				w.Append("symbol", "BTC").Embed(json.RawMessage(`{"volume":"25"}`)).Append("name", "Bitcoin")
			},
			want: `{"symbol":"BTC","volume":"25","name":"Bitcoin"}`,
		},
		{
			name: "embeds empty object",
			build: func(w *jsonObjectWriter) {
				w.Append("a", 1).Embed(json.RawMessage(`{}`))
			},
			want: `{"a":1}`,
		},
		{
			name: "skips zero optional",
			build: func(w *jsonObjectWriter) {
				w.Append("a", 0).Optional("b", "").Optional("c", 0).Optional("d", "x")
			},
			want: `{"a":0,"d":"x"}`,
		},
		{
			name: "embeds struct",
			build: func(w *jsonObjectWriter) {
				w.Append("class", "bond").EmbedFrom(struct {
					Yield float64 `json:"yield"`
				}{1.5})
			},
			want: `{"class":"bond","yield":1.5}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w jsonObjectWriter
			tt.build(&w)
			got, err := w.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestJsonObjectWriter_Error(t *testing.T) {
	var w jsonObjectWriter
	w.Append("bad", make(chan int)).Append("good", 1)
	if _, err := w.MarshalJSON(); err == nil {
		t.Error("MarshalJSON() error = nil, want an error for an unsupported value")
	}
}
