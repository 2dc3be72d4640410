package algopay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/usheguard/algopay/schema"
)

func TestGenerateReplyDappKeywords(t *testing.T) {
	reply := GenerateReply(schema.ChatContextDapp, "How do I create a wallet?")
	assert.Contains(t, reply, "wallet")

	reply = GenerateReply(schema.ChatContextDapp, "I want to MINT a token")
	assert.Contains(t, reply, "ASA")

	reply = GenerateReply(schema.ChatContextDapp, "how does the donation feature work")
	assert.Contains(t, reply, "donat")
}

func TestGenerateReplyDappFallback(t *testing.T) {
	reply := GenerateReply(schema.ChatContextDapp, "what is the meaning of life")
	assert.Equal(t, dappFallbackReply, reply)
}

func TestGenerateReplyGeneralDeterministic(t *testing.T) {
	msg := "tell me something interesting"
	first := GenerateReply(schema.ChatContextGeneral, msg)
	second := GenerateReply(schema.ChatContextGeneral, msg)
	assert.Equal(t, first, second)
	assert.Contains(t, generalReplies, first)
}
