package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestTag(t *testing.T) {
	assert.Equal(t, language.SimplifiedChinese, Tag(""))
	assert.Equal(t, language.SimplifiedChinese, Tag("zh-CN"))
	assert.Equal(t, language.English, Tag("en-US"))
}

func TestPrinter(t *testing.T) {
	assert.Equal(t, "干员组“盾”不能为空", Printer("zh-Hans").Sprintf(MsgEmptyGroup, "盾"))
	assert.Equal(t, `operator group "盾" must not be empty`, Printer("en").Sprintf(MsgEmptyGroup, "盾"))
	assert.Equal(t, "无效的关卡", Printer("").Sprintf(MsgInvalidLevel))
}

func TestNegotiate(t *testing.T) {
	assert.Equal(t, language.SimplifiedChinese, Negotiate(""))
	assert.Equal(t, language.SimplifiedChinese, Negotiate("zh-CN,zh;q=0.9,en;q=0.8"))
	assert.Equal(t, language.English, Negotiate("en-US,en;q=0.9"))
	assert.Equal(t, language.SimplifiedChinese, Negotiate("not a header;;"))
}
