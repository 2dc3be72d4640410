package algopay

import (
	"strings"

	"github.com/usheguard/algopay/schema"
)

// keywordReply maps keyword groups to canned assistant replies; first match
// wins, so the table order matters.
type keywordReply struct {
	keywords []string
	reply    string
}

var dappReplies = []keywordReply{
	{
		keywords: []string{"wallet", "create"},
		reply:    "I can help you with Algorand wallet operations! You can create a new wallet or import an existing one using your 25-word mnemonic phrase. Your wallet is stored server-side and never leaves our trust boundary.",
	},
	{
		keywords: []string{"send", "transfer", "algo"},
		reply:    "To send ALGO, use the Send ALGO tab. You'll need the recipient's Algorand address and the amount you want to send. The minimum transaction is 0.001 ALGO, and there's a small network fee for each transaction.",
	},
	{
		keywords: []string{"mint", "asa", "token"},
		reply:    "You can mint your own ASA (Algorand Standard Asset) tokens! Use the Mint ASA tab to create custom tokens. You can set the name, symbol, total supply, decimals, and an optional metadata URL.",
	},
	{
		keywords: []string{"balance", "account"},
		reply:    "Your account balance and assets are displayed in the wallet section. The balance refreshes every 10 seconds. You can see both your ALGO balance and any ASA tokens you hold.",
	},
	{
		keywords: []string{"testnet", "network"},
		reply:    "This application runs against Algorand TestNet by default, so you can safely test every feature without real ALGO. Free TestNet ALGO is available from the Algorand faucet.",
	},
	{
		keywords: []string{"donation", "donate"},
		reply:    "The donation feature lets you send ALGO to support causes or individuals. You can add a personal message and choose to donate anonymously. Sponsored donations go straight to the charity wallet.",
	},
	{
		keywords: []string{"reddit"},
		reply:    "The Reddit integration lets you browse cryptocurrency-related subreddits directly from the app, including trending posts from r/algorand and r/cryptocurrency.",
	},
}

var generalReplies = []string{
	"That's an interesting question! How can I help you with your Algorand DApp needs?",
	"I'm here to assist you with blockchain operations and general questions. What would you like to explore?",
	"Thanks for your message! I specialize in Algorand blockchain operations, but I'm happy to help with other topics too.",
	"I understand you're looking for information. Let me know if you need help with wallet operations, token transfers, or ASA minting!",
	"Great question! I'm designed to help with Algorand blockchain features, but I can assist with general inquiries as well.",
}

const dappFallbackReply = "I'm your Algorand blockchain assistant! I can help you with wallet management, ALGO transfers, ASA token minting, donations, and Reddit integration. What would you like to know more about?"

// GenerateReply is a pure mapping from input text to a canned response; no
// shared state, deterministic for a given input.
func GenerateReply(chatContext, message string) string {
	if chatContext == schema.ChatContextDapp {
		return dappReply(message)
	}
	return generalReply(message)
}

func dappReply(message string) string {
	lower := strings.ToLower(message)
	for _, kr := range dappReplies {
		for _, kw := range kr.keywords {
			if strings.Contains(lower, kw) {
				return kr.reply
			}
		}
	}
	return dappFallbackReply
}

func generalReply(message string) string {
	return generalReplies[len(message)%len(generalReplies)]
}
