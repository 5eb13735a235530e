package notification

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeed_NewestFirst(t *testing.T) {
	f := NewFeed(10)
	for i := range 3 {
		f.Add("alice", Activity{ID: fmt.Sprint(i)})
	}
	f.Add("bob", Activity{ID: "b"})

	got := f.List("alice", 0)
	assert.Equal(t, []string{"2", "1", "0"}, ids(got))
	assert.Equal(t, []string{"b"}, ids(f.List("bob", 0)))
	assert.Empty(t, f.List("carol", 0))
	assert.NotNil(t, f.List("carol", 0))
}

func TestFeed_Limits(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		adds  int
		limit int
		want  []string
	}{
		{name: "keeps most recent", size: 3, adds: 5, limit: 0, want: []string{"4", "3", "2"}},
		{name: "limit smaller than kept", size: 3, adds: 5, limit: 2, want: []string{"4", "3"}},
		{name: "limit larger than kept", size: 10, adds: 2, limit: 50, want: []string{"1", "0"}},
		{name: "non-positive size uses default", size: 0, adds: 2, limit: 0, want: []string{"1", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFeed(tt.size)
			for i := range tt.adds {
				f.Add("alice", Activity{ID: fmt.Sprint(i)})
			}
			assert.Equal(t, tt.want, ids(f.List("alice", tt.limit)))

			users, total := f.Stats()
			assert.Equal(t, 1, users)
			assert.EqualValues(t, tt.adds, total)
		})
	}
}

func ids(list []Activity) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}
