package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/platewise/recipe-ai/backend/config"
)

// imageCreator is the slice of the OpenAI client used for rendering.
type imageCreator interface {
	CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error)
}

// ImageService renders recipe illustrations and optionally re-hosts
// them on S3. With a nil S3 config the provider URL is returned as is.
type ImageService struct {
	images     imageCreator
	s3         *config.S3Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewImageService creates an image service. s3cfg may be nil.
func NewImageService(apiKey string, s3cfg *config.S3Config, logger *zap.Logger) *ImageService {
	return &ImageService{
		images:     openai.NewClient(apiKey),
		s3:         s3cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// GenerateImageFromPrompt renders one image and returns its URL. There
// is a single attempt; callers treat failures as a degraded response.
func (s *ImageService) GenerateImageFromPrompt(ctx context.Context, prompt string) (string, error) {
	resp, err := s.images.CreateImage(ctx, openai.ImageRequest{
		Model:          openai.CreateImageModelDallE3,
		Prompt:         prompt,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		Quality:        openai.CreateImageQualityStandard,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("empty image response")
	}

	providerURL := resp.Data[0].URL
	if s.s3 == nil {
		return providerURL, nil
	}

	hosted, err := s.rehostImage(ctx, providerURL)
	if err != nil {
		// Provider URLs expire quickly but still work for the response.
		s.logger.Warn("image re-hosting failed, keeping provider URL", zap.Error(err))
		return providerURL, nil
	}
	return hosted, nil
}

// rehostImage copies the provider image to S3 and returns the public
// URL.
func (s *ImageService) rehostImage(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	key := fmt.Sprintf("recipe-images/%s.png", uuid.New().String())
	_, err = s.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.BucketName),
		Key:         aws.String(key),
		Body:        resp.Body,
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("upload image to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3.BucketName, key), nil
}
