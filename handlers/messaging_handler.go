package handlers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/anjiri1684/hireloom/database"
	"github.com/anjiri1684/hireloom/models"
	"github.com/anjiri1684/hireloom/notifications"
	"github.com/anjiri1684/hireloom/services"
	"github.com/anjiri1684/hireloom/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StartConversationRequest struct {
	CandidateID string `json:"candidate_id" validate:"required,uuid"`
	Subject     string `json:"subject"`
}

type SendMessageRequest struct {
	Subject   string `json:"subject"`
	Content   string `json:"content" validate:"required"`
	Direction string `json:"direction" validate:"omitempty,oneof=outbound inbound"`
}

func GetRecruiterConversations(c *fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	page := readPage(c, "page_size", 20, 100)

	var conversations []models.Conversation
	if err := database.DB.
		Preload("Candidate").
		Where("recruiter_id = ?", recruiterID).
		Order("updated_at desc").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&conversations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch conversations"})
	}
	return c.JSON(conversations)
}

func CreateOrGetConversation(c *fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	var req StartConversationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	candidateID, _ := uuid.Parse(req.CandidateID)

	var candidate models.Candidate
	if err := database.DB.First(&candidate, "id = ? AND recruiter_id = ?", candidateID, recruiterID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Candidate not found"})
	}

	var conversation models.Conversation
	err = database.DB.Preload("Candidate").
		First(&conversation, "recruiter_id = ? AND candidate_id = ?", recruiterID, candidateID).Error
	if err == nil {
		return c.JSON(conversation)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load conversation"})
	}

	conversation = models.Conversation{RecruiterID: recruiterID, CandidateID: candidateID, Subject: req.Subject}
	if err := database.DB.Create(&conversation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create conversation"})
	}
	conversation.Candidate = candidate
	return c.Status(fiber.StatusCreated).JSON(conversation)
}

func ownConversation(c *fiber.Ctx) (*models.Conversation, error) {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return nil, fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(c.Params("conversationId"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid conversation ID")
	}
	var conversation models.Conversation
	if err := database.DB.Preload("Candidate.Job").Preload("Recruiter").
		First(&conversation, "id = ? AND recruiter_id = ?", id, recruiterID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Conversation not found")
	}
	return &conversation, nil
}

func GetConversationMessages(c *fiber.Ctx) error {
	conversation, err := ownConversation(c)
	if err != nil {
		return err
	}
	page := readPage(c, "page_size", 50, 100)

	var messages []models.Message
	if err := database.DB.
		Where("conversation_id = ?", conversation.ID).
		Order("created_at asc").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}
	return c.JSON(messages)
}

// SendMessage stores a message on a conversation. Outbound messages are
// emailed to the candidate; inbound ones log a reply received elsewhere.
func SendMessage(c *fiber.Ctx) error {
	conversation, err := ownConversation(c)
	if err != nil {
		return err
	}
	var req SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = conversation.Subject
	}
	message := models.Message{
		ConversationID: conversation.ID,
		Direction:      models.DirectionOutbound,
		Subject:        subject,
		Content:        req.Content,
	}
	if req.Direction == models.DirectionInbound {
		message.Direction = models.DirectionInbound
	} else {
		message.SenderID = &conversation.RecruiterID
	}

	if message.Direction == models.DirectionOutbound {
		if err := emailMessage(c.UserContext(), conversation, &message); err != nil {
			if errors.Is(err, notifications.ErrEmailNotConfigured) {
				return serviceError(c, err)
			}
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to email candidate"})
		}
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(conversation).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save message"})
	}

	websocket.Publish(conversation.RecruiterID, websocket.EventMessage, message)
	return c.Status(fiber.StatusCreated).JSON(message)
}

func emailMessage(ctx context.Context, conversation *models.Conversation, message *models.Message) error {
	jobTitle := ""
	if conversation.Candidate.Job != nil {
		jobTitle = conversation.Candidate.Job.Title
	}
	subject := message.Subject
	if subject == "" {
		subject = "Message from " + conversation.Recruiter.FullName
	}
	html, err := services.RenderMessage(services.MessageEmail{
		Subject:    subject,
		Body:       message.Content,
		SenderName: conversation.Recruiter.FullName,
		JobTitle:   jobTitle,
	})
	if err != nil {
		return err
	}

	err = notifications.EmailClient.Send(ctx, notifications.Email{
		To:      conversation.Candidate.Email,
		ToName:  conversation.Candidate.FullName,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		log.Printf("🔥 Failed to email message to %s: %v", conversation.Candidate.Email, err)
		return err
	}
	now := time.Now()
	message.EmailedAt = &now
	return nil
}

func MarkConversationRead(c *fiber.Ctx) error {
	conversation, err := ownConversation(c)
	if err != nil {
		return err
	}
	result := database.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND direction = ? AND read_at IS NULL", conversation.ID, models.DirectionInbound).
		Update("read_at", time.Now())
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark messages read"})
	}
	return c.JSON(fiber.Map{"updated": result.RowsAffected})
}

// ServeWs pushes live events to a recruiter. The first frame must be
// {"type":"auth","token":"<jwt>"}.
func ServeWs(c *websocketcontrib.Conn) {
	type AuthMessage struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	var authMsg AuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		log.Printf("WebSocket auth failed: invalid or missing auth message: %v", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	userID, err := parseToken(authMsg.Token)
	if err != nil {
		log.Printf("WebSocket auth failed: %v", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	client := &websocket.Client{UserID: userID, Conn: c}
	websocket.Register <- client
	defer func() {
		websocket.Unregister <- client
		c.Close()
	}()

	// The hub is the only writer from here on; reads just detect the close.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Printf("WebSocket read error for client %s: %v", userID, err)
			}
			return
		}
	}
}
