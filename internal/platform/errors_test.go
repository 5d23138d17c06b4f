// file: internal/platform/errors_test.go
package platform

import (
	"io/fs"
	"os"
	"os/exec"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "missing file", err: &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrNotExist}, want: KindNotFound},
		{name: "permission", err: &fs.PathError{Op: "open", Path: "/x", Err: os.ErrPermission}, want: KindPermission},
		{name: "missing binary", err: &exec.Error{Name: "pactl", Err: exec.ErrNotFound}, want: KindUnsupported},
		{name: "other", err: errors.New("weird"), want: KindFailed},
		{name: "already classified", err: NewError(KindUnsupported, "op", "nope", nil), want: KindUnsupported},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify("test", tc.err)
			assert.Equal(t, tc.want, KindOf(got))
		})
	}
	assert.NoError(t, Classify("test", nil))
}

func TestError_Message(t *testing.T) {
	err := NewError(KindPermission, "backlight.set", "permission denied", errors.New("EACCES"))
	assert.Equal(t, "backlight.set: permission denied: EACCES", err.Error())
	assert.Equal(t, KindFailed, KindOf(errors.New("plain")))
	assert.Contains(t, Hint(KindPermission), "permission denied")
	assert.NotEmpty(t, Hint(KindFailed))
}
