package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/release-planner/internal/model"
)

func TestPrinterWritesTitleAndMessage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Notify(New(model.LevelError, "삭제 실패", "할 일을 삭제하지 못했습니다."))
	p.Notify(New(model.LevelSuccess, "추가 완료", ""))

	out := buf.String()
	assert.Contains(t, out, "삭제 실패")
	assert.Contains(t, out, "할 일을 삭제하지 못했습니다.")
	assert.Contains(t, out, "추가 완료")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestMultiAndRecorder(t *testing.T) {
	var a, b Recorder
	m := Multi{&a, Discard{}, &b}

	m.Notify(New(model.LevelWarning, "로그인 취소", ""))

	require.Len(t, a.All(), 1)
	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, model.LevelWarning, last.Level)
	assert.False(t, last.CreatedAt.IsZero())

	a.Reset()
	_, ok = a.Last()
	assert.False(t, ok)
	assert.Equal(t, []string{"로그인 취소"}, b.Titles())
}
