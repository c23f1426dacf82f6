package assistant

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultAliases 触发助手的默认提及别名
var DefaultAliases = []string{"@ai", "@assistant", "@小助手"}

// MentionDetector 在消息正文中识别助手提及并提取问题文本
// 匹配不区分大小写，别名可以出现在句子任意位置
type MentionDetector struct {
	aliases []string
}

// NewMentionDetector 创建提及检测器；aliases 为空时使用默认别名
func NewMentionDetector(aliases []string) *MentionDetector {
	if len(aliases) == 0 {
		aliases = DefaultAliases
	}
	lowered := make([]string, 0, len(aliases))
	for _, a := range aliases {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			lowered = append(lowered, a)
		}
	}
	return &MentionDetector{aliases: lowered}
}

// Detect 检测提及并返回首个别名之后的问题文本
// 返回 (question, found)：
//   - found 为 false 表示没有提及，普通消息
//   - found 为 true 且 question 为空表示"空问题"，调用方必须整体跳过
func (d *MentionDetector) Detect(body string) (string, bool) {
	idx, alias := d.firstMention(body)
	if idx < 0 {
		return "", false
	}
	question := strings.TrimSpace(body[idx+len(alias):])
	return question, true
}

// Match 正文中是否出现了别名（不关心问题是否为空）
func (d *MentionDetector) Match(body string) bool {
	idx, _ := d.firstMention(body)
	return idx >= 0
}

// firstMention 返回最早一个边界合法的别名出现位置
// 别名前紧贴字母或数字（如邮箱 bob@ai.io）、或别名后紧跟字母或数字
// （如更长的词 @aiworks）都不算提及
func (d *MentionDetector) firstMention(body string) (int, string) {
	lower := strings.ToLower(body)

	best := -1
	bestAlias := ""
	for _, alias := range d.aliases {
		from := 0
		for {
			i := strings.Index(lower[from:], alias)
			if i < 0 {
				break
			}
			pos := from + i
			if d.boundaryBefore(lower, pos) && d.boundaryAfter(lower, pos+len(alias)) {
				if best < 0 || pos < best {
					best = pos
					bestAlias = alias
				}
				break
			}
			from = pos + 1
		}
	}
	return best, bestAlias
}

func (d *MentionDetector) boundaryBefore(s string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:pos])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func (d *MentionDetector) boundaryAfter(s string, pos int) bool {
	if pos >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[pos:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
