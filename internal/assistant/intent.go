package assistant

import (
	"strings"

	"github.com/go-ego/gse"
)

// CrossProjectClassifier 判断问题是否带有跨项目意图
// 做成接口方便扩展关键词表或替换为模型分类
type CrossProjectClassifier interface {
	LooksCrossProject(text string) bool
}

// 英文跨项目短语（小写匹配）
var crossProjectPhrases = []string{
	"all my projects",
	"all of my projects",
	"across projects",
	"across all projects",
	"every project",
	"all projects",
	"overview of my projects",
	"each project",
}

// 中文跨项目短语（直接子串匹配）
var crossProjectPhrasesZH = []string{
	"所有项目",
	"全部项目",
	"每个项目",
	"各个项目",
	"跨项目",
}

// 中文分词后的量词+主题组合："所有/全部/每个/各/跨" 搭配 "项目"
var zhQuantifiers = map[string]struct{}{
	"所有": {},
	"全部": {},
	"每个": {},
	"各个": {},
	"跨":  {},
}

// KeywordClassifier 基于关键词启发式的跨项目意图分类器
// 中文语序灵活（如"我所有的项目"），先做短语匹配，再用 gse 分词做组合匹配
type KeywordClassifier struct {
	segmenter *gse.Segmenter
}

// NewKeywordClassifier 创建关键词分类器
func NewKeywordClassifier() *KeywordClassifier {
	segmenter, err := gse.New()
	if err != nil {
		// 分词器初始化失败时降级为纯短语匹配
		return &KeywordClassifier{segmenter: nil}
	}
	return &KeywordClassifier{segmenter: &segmenter}
}

// LooksCrossProject 判断问题文本是否要求跨项目视角
func (c *KeywordClassifier) LooksCrossProject(text string) bool {
	lower := strings.ToLower(text)

	for _, phrase := range crossProjectPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, phrase := range crossProjectPhrasesZH {
		if strings.Contains(text, phrase) {
			return true
		}
	}

	if c.segmenter == nil {
		return false
	}

	// 分词组合匹配："项目" 与任一数量词同现即视为跨项目意图
	words := c.segmenter.Cut(text, true)
	hasProject := false
	hasQuantifier := false
	for _, w := range words {
		if w == "项目" {
			hasProject = true
			continue
		}
		if _, ok := zhQuantifiers[w]; ok {
			hasQuantifier = true
		}
	}
	return hasProject && hasQuantifier
}
