// File: internal/agent/reactions.go
package agent

import "math/rand"

// panicReactions are the interjections the assistant blurts out when a tool
// fails, paired with the pointer's panic burst. Streamed to the user like any
// other commentary.
var panicReactions = []string{
	"呃，操作失败了...",
	"不对不对，让我再试试...",
	"咦？怎么回事...",
	"哎呀，这里出问题了...",
	"嗯...换个方法试试",
	"糟糕，没找到...",
	"等等，好像不太对...",
	"奇怪，应该不是这样的...",
	"让我想想...再来一次",
	"靠，点歪了...",
	"我去，这页面怎么回事...",
	"卧槽，加载这么慢...",
	"什么鬼，怎么找不到...",
	"草，又失败了...",
	"艹，这破网站...",
	"妈的，元素跑哪去了...",
	"服了，这页面真难搞...",
	"无语，这也能出错...",
	"我靠，换个方式吧...",
}

func randomReaction(rng *rand.Rand) string {
	return panicReactions[rng.Intn(len(panicReactions))]
}
