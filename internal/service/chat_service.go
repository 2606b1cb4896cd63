package service

import (
	"bufio"
	"bytes"
	"crypto_edu_backend/internal/config"
	"crypto_edu_backend/internal/model"
	"crypto_edu_backend/internal/repository"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ChatService proxies the streaming LLM tutor. Every exchange is
// persisted so a session can be replayed as conversation history.
type ChatService struct {
	cfg            config.AIConfig
	ChatRepo       *repository.ChatRepository
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
}

func NewChatService(
	cfg config.AIConfig,
	chatRepo *repository.ChatRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
) *ChatService {
	return &ChatService{
		cfg:            cfg,
		ChatRepo:       chatRepo,
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
	}
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionChunk struct {
	Choices []struct {
		Delta chatTurn `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const historyLimit = 20

// StreamReply sends the prompt to the model and returns a channel of
// response fragments. The full assistant reply is saved once the stream
// drains.
func (s *ChatService) StreamReply(userID uint, sessionID, prompt string) (<-chan string, <-chan error) {
	out := make(chan string)
	errChan := make(chan error, 1)

	messages := []chatTurn{
		{Role: "system", Content: s.systemPrompt(userID)},
	}

	history, err := s.ChatRepo.ListBySession(userID, sessionID, historyLimit)
	if err == nil {
		for _, h := range history {
			messages = append(messages, chatTurn{Role: h.Role, Content: h.Content})
		}
	}
	messages = append(messages, chatTurn{Role: "user", Content: prompt})

	reqBody := map[string]interface{}{
		"model":    s.cfg.Model,
		"messages": messages,
		"stream":   true,
	}
	jsonData, _ := json.Marshal(reqBody)

	go func() {
		defer close(out)
		defer close(errChan)

		req, err := http.NewRequest("POST", s.cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
		if err != nil {
			errChan <- err
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			errChan <- err
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errChan <- fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
			return
		}

		var reply strings.Builder
		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					errChan <- err
				}
				break
			}

			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data: ") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				break
			}

			var chunk chatCompletionChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}

			if len(chunk.Choices) > 0 {
				content := chunk.Choices[0].Delta.Content
				if content != "" {
					reply.WriteString(content)
					out <- content
				}
			}
		}

		s.saveTurn(userID, sessionID, "user", prompt)
		if reply.Len() > 0 {
			s.saveTurn(userID, sessionID, "assistant", reply.String())
		}
	}()

	return out, errChan
}

func (s *ChatService) History(userID uint, sessionID string) ([]model.ChatMessage, error) {
	return s.ChatRepo.ListBySession(userID, sessionID, historyLimit)
}

// systemPrompt grounds the tutor in the courses the user is actually
// enrolled in so answers stay on the curriculum.
func (s *ChatService) systemPrompt(userID uint) string {
	base := "You are a tutor for a cryptocurrency education platform. " +
		"Explain blockchain, Bitcoin, Ethereum and DeFi concepts clearly and accurately. " +
		"Decline questions unrelated to cryptocurrency or finance education."

	enrollments, err := s.EnrollmentRepo.ListByUser(userID)
	if err != nil || len(enrollments) == 0 {
		return base
	}

	var titles []string
	for _, e := range enrollments {
		course, err := s.CourseRepo.FindByID(e.CourseID)
		if err != nil {
			continue
		}
		titles = append(titles, fmt.Sprintf("%s (%d%% complete)", course.Title, e.Progress))
	}
	if len(titles) == 0 {
		return base
	}

	return base + "\n\nThe student is enrolled in: " + strings.Join(titles, ", ") +
		". Prefer examples drawn from these courses."
}

func (s *ChatService) saveTurn(userID uint, sessionID, role, content string) {
	_ = s.ChatRepo.SaveMessage(&model.ChatMessage{
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	})
}
