package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	chatModel  = "gemini-2.5-flash"
	imageModel = "gemini-2.5-flash-image"
)

// ErrUnavailable фичи ИИ выключены: не задан API-ключ
var ErrUnavailable = errors.New("ai features are unavailable")

// Ответы пользователю при недоступности сервиса; наружу никогда не уходит
// необработанная ошибка API
const (
	MsgDisabled   = "Sorry, the AI stylist is currently unavailable (missing API key)."
	MsgThinking   = "I'm still thinking of the perfect look for you..."
	MsgAPIFailure = "We're having trouble reaching the fashion mainframe, please try again later!"
)

const stylistPersona = `You are "Lumi", the premium, friendly and elegant fashion stylist of the Twýst brand.
Your goal is to help customers pick outfits, match accessories and feel confident.
Keep your advice concise (under 100 words), encouraging and fashion-forward.
If the user asks about products, recommend generic items matching our store aesthetic, such as "silk blouses", "gold jewelry" or "leather bags".`

const tryOnInstructions = `Expert photo editing task.
Image 1 is the user. Image 2 is the fashion product (%s).
Goal: Digitally dress the user in Image 1 with the product from Image 2.

Instructions:
1. Identify the user's pose and body shape in Image 1.
2. Replace the user's current %s (or equivalent area) with the product from Image 2.
3. Adjust lighting, shadows, and folds to make it look realistic.
4. Keep the user's face, hair, and background exactly the same.
5. If it's a dress, replace the whole outfit. If it's a shirt, replace the top.

Return ONLY the edited image.`

// Stylist обёртка над Gemini API: текстовые советы стилиста и виртуальная
// примерка. Без ключа клиент не создаётся и методы отвечают заглушками.
type Stylist struct {
	client *genai.Client
	httpc  *http.Client
	log    *zap.Logger
}

// NewStylist создаёт обёртку; пустой apiKey выключает фичи ИИ, но не является
// ошибкой
func NewStylist(ctx context.Context, apiKey string, log *zap.Logger) (*Stylist, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Stylist{httpc: http.DefaultClient, log: log}
	if apiKey == "" {
		log.Warn("no Gemini API key configured, AI features disabled")
		return s, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	s.client = client
	return s, nil
}

// Enabled сообщает, доступны ли фичи ИИ
func (s *Stylist) Enabled() bool { return s.client != nil }

// Advice отвечает на вопрос пользователя от лица стилистки Lumi. Любая ошибка
// API превращается в извинение для пользователя, не в ошибку вызова.
func (s *Stylist) Advice(ctx context.Context, query string) string {
	if s.client == nil {
		return MsgDisabled
	}
	contents := []*genai.Content{
		genai.NewContentFromText(query, genai.RoleUser),
	}
	result, err := s.client.Models.GenerateContent(ctx, chatModel, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(stylistPersona, genai.RoleUser),
	})
	if err != nil {
		s.log.Error("stylist chat failed", zap.Error(err))
		return MsgAPIFailure
	}
	text := result.Text()
	if text == "" {
		return MsgThinking
	}
	return text
}

// TryOn просит модель «надеть» товар на фото пользователя. Фото приходит
// base64 (допустим data:-префикс), фото товара забирается по каноническому URL.
// Возвращает отредактированное изображение в виде data-URL.
func (s *Stylist) TryOn(ctx context.Context, userPhotoB64, productImageURL, productCategory string) (string, error) {
	if s.client == nil {
		return "", ErrUnavailable
	}

	userPhoto, err := decodePhoto(userPhotoB64)
	if err != nil {
		return "", fmt.Errorf("decode user photo: %w", err)
	}
	productPhoto, err := s.fetchImage(ctx, productImageURL)
	if err != nil {
		return "", fmt.Errorf("load product image: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(userPhoto, "image/jpeg"),
		genai.NewPartFromBytes(productPhoto, "image/jpeg"),
		genai.NewPartFromText(fmt.Sprintf(tryOnInstructions, productCategory, productCategory)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	result, err := s.client.Models.GenerateContent(ctx, imageModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		s.log.Error("try-on generation failed", zap.Error(err))
		return "", err
	}

	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return "data:image/png;base64," + base64.StdEncoding.EncodeToString(p.InlineData.Data), nil
			}
		}
	}
	return "", errors.New("no image in response")
}

// decodePhoto снимает data:-префикс и декодирует base64
func decodePhoto(b64 string) ([]byte, error) {
	if i := strings.Index(b64, ","); i >= 0 && strings.HasPrefix(b64, "data:") {
		b64 = b64[i+1:]
	}
	return base64.StdEncoding.DecodeString(b64)
}

func (s *Stylist) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
