package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/example/gameshop/internal/utils"
)

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// OrderNotification contains order data for Telegram notification.
// Amounts are paisa.
type OrderNotification struct {
	OrderID            string
	Items              []OrderItemNotification
	TotalAmount        int64
	CustomerName       string
	CustomerPhone      string
	TakeAppOrderNumber string
	Status             string
}

// OrderItemNotification contains order item data.
type OrderItemNotification struct {
	Name      string
	Variation string
	Quantity  int
	Price     int64
}

// NotifyNewOrder sends notification about a new order to the admin chat.
func (s *TelegramService) NotifyNewOrder(order OrderNotification) error {
	if s.adminChatID == "" {
		return nil
	}

	var itemsList strings.Builder
	for i, item := range order.Items {
		label := item.Name
		if item.Variation != "" {
			label += " (" + item.Variation + ")"
		}
		itemTotal := item.Price * int64(item.Quantity)
		itemsList.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %d x %s = %s\n",
			i+1,
			label,
			item.Quantity,
			utils.FormatRupees(item.Price),
			utils.FormatRupees(itemTotal),
		))
	}

	syncLine := "not synced"
	if order.TakeAppOrderNumber != "" {
		syncLine = order.TakeAppOrderNumber
	}

	message := fmt.Sprintf(`<b>🛒 NEW ORDER!</b>
<b>📋 Order:</b> %s
<b>👤 Customer:</b> %s
<b>📞 Phone:</b> %s
<b>📦 Items:</b>
%s
<b>💰 Total:</b> %s
<b>🔗 Take.app:</b> %s
<b>📍 Status:</b> %s
━━━━━━━━━━━━━━━━━━`,
		order.OrderID,
		order.CustomerName,
		order.CustomerPhone,
		itemsList.String(),
		utils.FormatRupees(order.TotalAmount),
		syncLine,
		order.Status,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}
