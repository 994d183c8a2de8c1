package render

import "strings"

// Canned replies for the chit-chat filter. Keyed by the exact
// normalized utterance; partial matches are handled below.
var cannedReplies = map[string]string{
	"hi":     "Hello! I'm your Shopify product assistant. I can help you find information about products, compare items, check inventory, and more. What product would you like to know about?",
	"hello":  "Hi there! I'm here to help you with product information. You can ask me about prices, inventory, costs, profits, margins, or compare different products. What can I help you find?",
	"hey":    "Hey! I'm your product assistant. I can help you search for products, check their details, compare items, or find products by category or status. What are you looking for?",
	"help":   helpReply,
	"thanks": "You're welcome! Feel free to ask about any other products.",
	"bye":    "Goodbye! Feel free to come back anytime you need product information.",
}

const helpReply = "I'm your Shopify product assistant! Here's what I can do:\n\n" +
	"📦 **Product Information**: Ask about price, cost, inventory, dimensions, profit, margin\n" +
	"🔍 **Product Search**: Search by name, SKU, or part number\n" +
	"⚖️ **Compare Products**: Compare two products side by side\n" +
	"📊 **Filter Products**: Find products by status (draft/active/archived) or category\n" +
	"📅 **Date Queries**: Find products created before/after specific dates\n\n" +
	"Try asking: 'What is the price of [product name]?' or 'Compare [product A] and [product B]'"

const fallbackReply = "I'm here to help you with product information! You can ask me about:\n" +
	"• Product prices, costs, and inventory\n" +
	"• Profit and margin calculations\n" +
	"• Product comparisons\n" +
	"• Finding products by category or status\n\n" +
	"What product would you like to know about?"

// GeneralReply answers a non-product utterance.
func GeneralReply(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))

	if reply, ok := cannedReplies[lower]; ok {
		return reply
	}

	switch {
	case strings.Contains(lower, "how are you") || strings.Contains(lower, "what's up"):
		return "I'm doing great and ready to help! I specialize in providing product information from your Shopify store. What would you like to know?"
	case strings.Contains(lower, "what can you do") || strings.Contains(lower, "what do you do"):
		return cannedReplies["help"]
	case strings.Contains(lower, "thanks") || strings.Contains(lower, "thank you"):
		return cannedReplies["thanks"]
	case strings.Contains(lower, "bye") || strings.Contains(lower, "goodbye") || strings.Contains(lower, "see you"):
		return cannedReplies["bye"]
	case strings.Contains(lower, "help"):
		return cannedReplies["help"]
	}

	return fallbackReply
}
