package cache

import (
	"net/url"
	"testing"
)

func TestCacheKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  CacheKey
		want string
	}{
		{
			name: "endpoint only",
			key: CacheKey{
				Endpoint: "/filter/professor/",
			},
			want: "rmp:filter/professor",
		},
		{
			name: "listing query sorted",
			key: CacheKey{
				Endpoint: "/filter/professor/",
				QueryParams: url.Values{
					"sid":  []string{"100"},
					"page": []string{"2"},
				},
			},
			want: "rmp:filter/professor:page=2:sid=100",
		},
		{
			name: "empty values kept",
			key: CacheKey{
				Endpoint: "/paginate/professors/ratings",
				QueryParams: url.Values{
					"tid":        []string{"12345"},
					"filter":     []string{""},
					"courseCode": []string{""},
					"page":       []string{"1"},
				},
			},
			want: "rmp:paginate/professors/ratings:courseCode=:filter=:page=1:tid=12345",
		},
		{
			name: "multi-valued param",
			key: CacheKey{
				Endpoint:    "x",
				QueryParams: url.Values{"a": []string{"1", "2"}},
			},
			want: "rmp:x:a=1,2",
		},
		{
			name: "empty key",
			key:  CacheKey{},
			want: "rmp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheKey_Deterministic(t *testing.T) {
	key := CacheKey{
		Endpoint: "/filter/professor/",
		QueryParams: url.Values{
			"queryoption": []string{"TEACHER"},
			"queryBy":     []string{"schoolId"},
			"sid":         []string{"100"},
			"page":        []string{"1"},
		},
	}

	first := key.String()
	for i := 0; i < 20; i++ {
		if got := key.String(); got != first {
			t.Fatalf("String() not deterministic: %q vs %q", got, first)
		}
	}
}
