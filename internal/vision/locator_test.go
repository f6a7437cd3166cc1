// File: internal/vision/locator_test.go
package vision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/api/schemas"
)

// fakeModel scripts vision replies and records the prompts it received.
type fakeModel struct {
	replies []string
	err     error
	prompts []string
}

func (f *fakeModel) Analyze(ctx context.Context, prompt, pngBase64 string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeModel) AnalyzePair(ctx context.Context, firstPrompt, firstPNG, secondPrompt, secondPNG string) (string, error) {
	f.prompts = append(f.prompts, firstPrompt, secondPrompt)
	if f.err != nil {
		return "", f.err
	}
	return f.replies[0], nil
}

func newTestAnalyst(model *fakeModel) *Analyst {
	return NewAnalyst(model, zap.NewNop())
}

func TestLocateParsesHit(t *testing.T) {
	model := &fakeModel{replies: []string{"FOUND: YES\nX: 640\nY: 412\nCONFIDENCE: HIGH\nELEMENT: 搜索结果标题链接"}}
	a := newTestAnalyst(model)

	result, err := a.Locate(context.Background(), "GitHub 搜索结果", "cGln", 1280, 800)
	require.NoError(t, err)
	assert.Equal(t, schemas.LocateResult{
		Found:      true,
		X:          640,
		Y:          412,
		Confidence: 0.9,
		Element:    "搜索结果标题链接",
	}, result)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "「GitHub 搜索结果」")
	assert.Contains(t, model.prompts[0], "宽度 1280px")
	assert.Contains(t, model.prompts[0], "高度 800px")
}

func TestLocateMiss(t *testing.T) {
	model := &fakeModel{replies: []string{"FOUND: NO\nSUGGESTION: 需要滚动页面"}}
	a := newTestAnalyst(model)

	result, err := a.Locate(context.Background(), "购买按钮", "cGln", 1280, 800)
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Equal(t, "需要滚动页面", result.Suggestion)
}

func TestLocatePropagatesTransportError(t *testing.T) {
	wantErr := errors.New("boom")
	a := newTestAnalyst(&fakeModel{err: wantErr})

	_, err := a.Locate(context.Background(), "x", "cGln", 1, 1)
	assert.ErrorIs(t, err, wantErr)
}

func TestParseLocateLowConfidenceStillYieldsCoordinates(t *testing.T) {
	result := parseLocate("FOUND: YES\nX: 320\nY: 480\nCONFIDENCE: LOW\nELEMENT: 模糊的链接")
	assert.True(t, result.Found)
	assert.Equal(t, 320.0, result.X)
	assert.Equal(t, 480.0, result.Y)
	assert.InDelta(t, 0.3, result.Confidence, 1e-9)
}

func TestParseLocateDefaultsToMediumConfidence(t *testing.T) {
	result := parseLocate("FOUND: YES\nX: 10\nY: 20")
	assert.True(t, result.Found)
	assert.InDelta(t, 0.6, result.Confidence, 1e-9)
}

func TestParseLocateMissingCoordinates(t *testing.T) {
	result := parseLocate("FOUND: YES\nELEMENT: 某个按钮")
	assert.False(t, result.Found)
	assert.Equal(t, "无法解析坐标", result.Suggestion)
}

func TestParseLocateTolerantFormatting(t *testing.T) {
	content := "好的，我找到了。\n\n**found: yes**\nx: 123px\ny: 456\nconfidence: medium\nelement: **登录按钮**\n"
	result := parseLocate(content)
	assert.True(t, result.Found)
	assert.Equal(t, 123.0, result.X)
	assert.Equal(t, 456.0, result.Y)
	assert.Equal(t, "登录按钮", result.Element)
}

func TestParseLocateMissWithoutSuggestion(t *testing.T) {
	result := parseLocate("FOUND: NO")
	assert.False(t, result.Found)
	assert.Equal(t, "未找到目标元素", result.Suggestion)
}

func TestQuickFeedbackPromptNamesAction(t *testing.T) {
	model := &fakeModel{replies: []string{"搜索结果已显示"}}
	a := newTestAnalyst(model)

	reply, err := a.QuickFeedback(context.Background(), "点击「GitHub」", "cGln")
	require.NoError(t, err)
	assert.Equal(t, "搜索结果已显示", reply)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "点击「GitHub」")
}

func TestCompareSendsBothCaptions(t *testing.T) {
	model := &fakeModel{replies: []string{"页面从首页变为搜索结果页"}}
	a := newTestAnalyst(model)

	reply, err := a.Compare(context.Background(), "YmVmb3Jl", "YWZ0ZXI=")
	require.NoError(t, err)
	assert.Equal(t, "页面从首页变为搜索结果页", reply)
	require.Len(t, model.prompts, 2)
	assert.True(t, strings.Contains(model.prompts[0], "操作前"))
	assert.True(t, strings.Contains(model.prompts[1], "操作后"))
}
