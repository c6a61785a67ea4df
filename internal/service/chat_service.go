package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/trackswift/internal/repository"
)

var trackingIDPattern = regexp.MustCompile(`(?i)(TRK\d+)`)

const (
	chatReplyEmpty    = "I didn't catch that. Could you say it again?"
	chatReplyFound    = "📦 **Parcel Found!**<br><strong>ID:</strong> %s<br><strong>Status:</strong> %s<br><strong>Location:</strong> %s<br><br><a href='/track?tracking_id=%s' class='chat-link'>View Full Details</a>"
	chatReplyNotFound = "❌ I verified our database, but I couldn't find any parcel with ID **%s**. Please double-check the ID."
	chatReplyFallback = "🤖 I'm trained to help with logistics. Try asking about **tracking**, **shipping rates**, or **contacting support**."
)

// ChatRule 关键字规则，按顺序匹配，首个命中生效
type ChatRule struct {
	Name     string
	Keywords []string
	Reply    string
}

// Match 小写消息中包含任一关键字
func (r ChatRule) Match(lowered string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// ChatRules 关键字规则表
var ChatRules = []ChatRule{
	{
		Name:     "greeting",
		Keywords: []string{"hi", "hello", "hey", "start"},
		Reply:    "👋 Verified TrackSwift AI here! I can help you with:<br>1. 📦 Tracking a Parcel<br>2. 🚚 Scheduling a Pickup<br>3. 💰 Checking Rates<br>4. 📞 Customer Support",
	},
	{
		Name:     "tracking",
		Keywords: []string{"track", "where is", "status"},
		Reply:    "To track your shipment, simply enter your **Tracking ID** (starting with TRK). or provide me the ID here.",
	},
	{
		Name:     "shipping",
		Keywords: []string{"send", "ship", "courier", "new parcel"},
		Reply:    "🚀 **Ready to ship?**<br>We offer fast and secure delivery.<br><br><a href='/create_parcel' class='chat-link' style='background: #ff6b6b; color: white; padding: 5px 10px; border-radius: 5px; text-decoration: none;'>Book a Parcel Now</a>",
	},
	{
		Name:     "pricing",
		Keywords: []string{"price", "cost", "rate", "how much"},
		Reply:    "💰 **Best Rates Guaranteed!**<br>Our pricing depends on weight and distance. You can get an instant quote on our <a href='/create_parcel' class='chat-link'>Booking Page</a>.",
	},
	{
		Name:     "contact",
		Keywords: []string{"contact", "human", "support", "call", "talk", "help"},
		Reply:    "📞 **We are here to help!**<br>You can reach our premium support line at:<br><strong>+91 96572 65104</strong><br><br>Or chat directly on WhatsApp:<br><a href='https://wa.me/919657265104?text=Hi%20TrackSwift%20Support,%20I%20need%20help' target='_blank' class='chat-link' style='color: #25D366; font-weight: bold;'>Click to Chat on WhatsApp 💬</a>",
	},
	{
		Name:     "security",
		Keywords: []string{"safe", "secure", "security"},
		Reply:    "🔒 **Top-Tier Security**<br>Every parcel is photo-verified at pickup and delivery. We use AI monitoring to ensure 100% safety.",
	},
}

// ChatReply 回复内容及命中的规则名
type ChatReply struct {
	Rule string
	Text string
}

// ChatService 聊天应答服务，无状态
type ChatService struct {
	parcels repository.ParcelRepository
	rules   []ChatRule
}

// NewChatService 创建聊天应答服务
func NewChatService(parcels repository.ParcelRepository) *ChatService {
	return &ChatService{parcels: parcels, rules: ChatRules}
}

// Reply 根据消息生成回复
func (s *ChatService) Reply(ctx context.Context, message string) (ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return ChatReply{Rule: "empty", Text: chatReplyEmpty}, nil
	}

	if match := trackingIDPattern.FindStringSubmatch(message); match != nil {
		id := strings.ToUpper(match[1])
		parcel, err := s.parcels.GetByID(ctx, id)
		if err != nil {
			return ChatReply{}, err
		}
		if parcel == nil {
			return ChatReply{Rule: "parcel_not_found", Text: fmt.Sprintf(chatReplyNotFound, id)}, nil
		}
		status, location := parcel.LatestStatus()
		return ChatReply{Rule: "parcel_found", Text: fmt.Sprintf(chatReplyFound, id, status, location, id)}, nil
	}

	lowered := strings.ToLower(message)
	for _, rule := range s.rules {
		if rule.Match(lowered) {
			return ChatReply{Rule: rule.Name, Text: rule.Reply}, nil
		}
	}
	return ChatReply{Rule: "fallback", Text: chatReplyFallback}, nil
}
