package archive

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailvault-systems/mailvault-stack/common/messaging"
)

// fakeObjectStore records writes and can be made to fail.
type fakeObjectStore struct {
	objects map[string][]byte
	err     error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.objects[key] = append([]byte(nil), body...)
	return nil
}

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name  string
		attrs messaging.Attributes
		want  string
	}{
		{
			name: "subject and sender present",
			attrs: messaging.Attributes{
				"subject": messaging.StringAttr("Happy new year!"),
				"sender":  messaging.StringAttr("John Doe"),
			},
			want: "Happy new year!-John Doe.json",
		},
		{
			name: "missing subject falls back to sentinel",
			attrs: messaging.Attributes{
				"sender": messaging.StringAttr("John Doe"),
			},
			want: "unknown_subject-John Doe.json",
		},
		{
			name: "missing sender falls back to sentinel",
			attrs: messaging.Attributes{
				"subject": messaging.StringAttr("Hello"),
			},
			want: "Hello-unknown_sender.json",
		},
		{
			name:  "no attributes at all",
			attrs: nil,
			want:  "unknown_subject-unknown_sender.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveKey(tt.attrs))
		})
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	attrs := messaging.Attributes{
		"subject": messaging.StringAttr("S"),
		"sender":  messaging.StringAttr("A"),
	}
	assert.Equal(t, DeriveKey(attrs), DeriveKey(attrs))
}

func TestArchive_BodyRoundTrips(t *testing.T) {
	fake := newFakeObjectStore()
	a := New(fake)

	attrs := messaging.Attributes{
		"subject":    messaging.StringAttr("Happy new year!"),
		"sender":     messaging.StringAttr("John Doe"),
		"timestream": messaging.StringAttr("1693561101"),
		"content":    messaging.StringAttr("Testing"),
	}

	key := DeriveKey(attrs)
	require.NoError(t, a.Archive(context.Background(), key, attrs))

	stored, ok := fake.objects["Happy new year!-John Doe.json"]
	require.True(t, ok)

	var got map[string]string
	require.NoError(t, json.Unmarshal(stored, &got))
	assert.Equal(t, attrs.Values(), got)
}

func TestArchive_OverwriteOnCollision(t *testing.T) {
	fake := newFakeObjectStore()
	a := New(fake)

	first := messaging.Attributes{
		"subject": messaging.StringAttr("S"),
		"sender":  messaging.StringAttr("A"),
		"content": messaging.StringAttr("first"),
	}
	second := messaging.Attributes{
		"subject": messaging.StringAttr("S"),
		"sender":  messaging.StringAttr("A"),
		"content": messaging.StringAttr("second"),
	}

	require.NoError(t, a.Archive(context.Background(), DeriveKey(first), first))
	require.NoError(t, a.Archive(context.Background(), DeriveKey(second), second))

	require.Len(t, fake.objects, 1)

	var got map[string]string
	require.NoError(t, json.Unmarshal(fake.objects["S-A.json"], &got))
	assert.Equal(t, "second", got["content"])
}

func TestArchive_StoreErrorSurfaces(t *testing.T) {
	fake := newFakeObjectStore()
	fake.err = errors.New("bucket gone")
	a := New(fake)

	err := a.Archive(context.Background(), "k.json", messaging.Attributes{
		"subject": messaging.StringAttr("S"),
	})
	assert.Error(t, err)
}
