package services

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

type RekognitionService struct {
	client *rekognition.Client
}

func NewRekognitionService(ctx context.Context) (*RekognitionService, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &RekognitionService{client: rekognition.NewFromConfig(cfg)}, nil
}

// foodLabels is the label set Rekognition reports for photos that plausibly
// contain food.
var foodLabels = map[string]bool{
	"Food":      true,
	"Meal":      true,
	"Dish":      true,
	"Beverage":  true,
	"Drink":     true,
	"Dessert":   true,
	"Fruit":     true,
	"Vegetable": true,
	"Bread":     true,
	"Snack":     true,
}

// ScreenFoodImage runs a cheap label detection before the expensive vision
// call: a meal upload that carries no food-ish label is rejected up front.
// Returns the detected labels for the error message.
func (r *RekognitionService) ScreenFoodImage(ctx context.Context, image []byte) (bool, []string, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(70),
	})
	if err != nil {
		return false, nil, err
	}

	var labels []string
	found := false
	for _, l := range out.Labels {
		if l.Name == nil {
			continue
		}
		labels = append(labels, *l.Name)
		if foodLabels[*l.Name] {
			found = true
		}
	}
	return found, labels, nil
}
