// Package locale holds the user-facing messages of the service and picks the
// language they are rendered in.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Default is the display language of the editor.
const Default = "zh-Hans"

// Message keys. The key doubles as the English text.
const (
	MsgEmptyGroup      = "operator group \"%s\" must not be empty"
	MsgInvalidLevel    = "invalid level"
	MsgRequestFailed   = "request failed: the server returned an error, please try again later"
	MsgNotLoggedIn     = "not logged in, please log in first"
	MsgLoginExpired    = "login expired, please log in again"
	MsgNotFound        = "operation not found"
	MsgPersistFailed   = "failed to save the operation"
	MsgBadRequest      = "malformed request"
	MsgUnauthorized    = "unauthorized"
	MsgInternalError   = "internal server error"
	MsgInvalidDocument = "the operation content is not a valid document"
)

var supported = []language.Tag{
	language.English,
	language.SimplifiedChinese,
}

var matcher = language.NewMatcher(supported)

func init() {
	zh := language.SimplifiedChinese
	for key, text := range map[string]string{
		MsgEmptyGroup:      "干员组“%s”不能为空",
		MsgInvalidLevel:    "无效的关卡",
		MsgRequestFailed:   "请求失败：服务器返回错误，请稍后再试",
		MsgNotLoggedIn:     "未登录，请先登录",
		MsgLoginExpired:    "登录已失效，请重新登录",
		MsgNotFound:        "作业不存在",
		MsgPersistFailed:   "作业保存失败",
		MsgBadRequest:      "请求格式错误",
		MsgUnauthorized:    "未授权",
		MsgInternalError:   "服务器内部错误",
		MsgInvalidDocument: "作业内容不是有效的作业文件",
	} {
		if err := message.SetString(zh, key, text); err != nil {
			panic(err)
		}
	}
}

// Tag returns the supported language closest to name.
func Tag(name string) language.Tag {
	if name == "" {
		name = Default
	}
	_, idx, _ := matcher.Match(language.Make(name))
	return supported[idx]
}

// Printer renders message keys in the language closest to name.
func Printer(name string) *message.Printer {
	return message.NewPrinter(Tag(name))
}

// Negotiate picks the supported language for an Accept-Language header. An
// empty or unmatched header yields Default.
func Negotiate(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Tag(Default)
	}

	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Tag(Default)
	}
	return supported[idx]
}
