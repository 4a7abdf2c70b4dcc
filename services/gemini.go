package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/arnab412/SabujSathi/models"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

const (
	geminiModel      = "gemini-2.5-flash"
	geminiImageModel = "gemini-2.5-flash-image"
)

// Content-validity failures, surfaced verbatim to the user.
var (
	ErrNotAPlant   = errors.New("এটি কোনো গাছ মনে হচ্ছে না।")
	ErrBlurryImage = errors.New("ছবিটি অস্পষ্ট।")
)

// Canned replies for chat failures.
const (
	chatBusyReply    = "দুঃখিত বন্ধু! সার্ভার এখন খুব ব্যস্ত। আমি এখন বিশ্রাম নিচ্ছি। 🌿 (Quota Exceeded)"
	chatFailureReply = "দুঃখিত, সংযোগে সমস্যা হচ্ছে।"
)

// PlantData is the structured identification result.
type PlantData struct {
	Name           string   `json:"name"`
	ScientificName string   `json:"scientificName"`
	Water          string   `json:"water"`
	Sunlight       string   `json:"sunlight"`
	Soil           string   `json:"soil"`
	Care           string   `json:"care"`
	Disease        string   `json:"disease"`
	Tips           []string `json:"tips"`
	Offline        bool     `json:"offline,omitempty"` // true when assembled from the local fallback table
}

// ChatTurn is one prior message in a chat conversation.
type ChatTurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Offline fallback table used when the API is throttled or unreachable.
var localPlantDB = map[string]PlantData{
	"rose": {
		Name:           "গোলাপ (Rose)",
		ScientificName: "Rosa rubiginosa",
		Water:          "মাটি শুকিয়ে গেলে জল দিন",
		Sunlight:       "দিনে ৫-৬ ঘণ্টা কড়া রোদ",
		Soil:           "উর্বর দোআঁশ মাটি",
		Care:           "শুকনো ফুল কেটে ফেলুন।",
		Disease:        "সুস্থ ও সতেজ (Offline Analysis)",
		Tips: []string{
			"মাসে একবার সরিষার খোল পচা জল দিন।",
			"ফাঙ্গাস লাগলে সাবান জল স্প্রে করুন।",
			"শীতকালে ডাল ছাঁটাই করুন।",
		},
	},
	"basil": {
		Name:           "তুলসী (Holy Basil)",
		ScientificName: "Ocimum tenuiflorum",
		Water:          "প্রতিদিন সকালে অল্প জল দিন",
		Sunlight:       "সকালের রোদ পছন্দ করে",
		Soil:           "বেলে দোআঁশ মাটি",
		Care:           "মঞ্জরী (ফুল) ভেঙে দিন।",
		Disease:        "সুস্থ ও সতেজ (Offline Analysis)",
		Tips: []string{
			"অতিরিক্ত জল দিলে শিকড় পচে যায়।",
			"শীতকালে কুয়াশা থেকে দূরে রাখুন।",
			"পাতা হলুদ হলে নাইট্রোজেন সার দিন।",
		},
	},
	"generic": {
		Name:           "অজানা গাছ (Unknown Plant)",
		ScientificName: "Plant Detected",
		Water:          "মাটি পরীক্ষা করে জল দিন",
		Sunlight:       "পর্যাপ্ত আলো দিন",
		Soil:           "সাধারণ বাগান মাটি",
		Care:           "শুকনো পাতা পরিষ্কার রাখুন।",
		Disease:        "নিশ্চিত হওয়া যায়নি",
		Tips: []string{
			"গাছের গোড়ায় আগাছা পরিষ্কার রাখুন।",
			"অতিরিক্ত রোদ বা ছায়া এ এড়িয়ে চলুন।",
			"বিনা প্রয়োজনে সার দেবেন না।",
		},
	},
}

// FallbackTips are served when tip generation fails.
var FallbackTips = []string{
	"গাছের পাতায় ধুলো জমলে সালোকসংশ্লেষণে বাধা পায়, তাই পাতা পরিষ্কার রাখুন।",
	"অতিরিক্ত জল দিলে গাছের শিকড় পচে যেতে পারে, তাই মাটি শুকিয়ে গেলে জল দিন।",
	"সকালের হালকা রোদ গাছের জন্য সবচেয়ে ভালো, দুপুরের কড়া রোদ এড়িয়ে চলুন।",
	"শুকনো ফুল ও পাতা নিয়মিত ছেঁটে ফেললে গাছের বৃদ্ধি ভালো হয়।",
	"নিম তেল প্রাকৃতিকভাবে পোকা দমনে খুব কার্যকরী।",
	"গাছের গোড়ায় জল জমতে দেবেন না, এতে শিকড় পচে যায়।",
}

// FallbackMissions are served when mission generation fails.
var FallbackMissions = []models.Mission{
	{
		Code:       "fallback_1",
		Label:      "পাতা পরিষ্কার",
		Sub:        "Clean Leaves",
		Desc:       "ভেজা কাপড় দিয়ে গাছের বড় পাতাগুলো মুছে দিন।",
		XP:         50,
		IconName:   "Leaf",
		ColorTheme: "green",
	},
	{
		Code:       "fallback_2",
		Label:      "আগাছা দমন",
		Sub:        "Weeding",
		Desc:       "টবের মাটি থেকে অপ্রয়োজনীয় ঘাস তুলে ফেলুন।",
		XP:         60,
		IconName:   "Sprout",
		ColorTheme: "orange",
	},
}

// IsQuotaError reports whether an upstream failure looks like resource
// exhaustion / throttling. The SDK error text is the only interface we have.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "429") ||
		strings.Contains(lower, "quota") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "too many requests")
}

// isFetchError matches generic network-level failures, which identification
// also treats as grounds for the offline fallback.
func isFetchError(err error) bool {
	if err == nil {
		return false
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "fetch") ||
		strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "dial tcp")
}

// OfflinePlantData assembles the offline substitute for a failed
// identification.
func OfflinePlantData() *PlantData {
	data := localPlantDB["generic"]
	data.Disease = "সার্ভার ব্যস্ত (Offline Mode)"
	data.ScientificName = "System Offline"
	data.Offline = true
	return &data
}

// GeminiService talks to the hosted Gemini API. Every outbound call
// increments the quota counter exactly once, before the request, regardless
// of outcome.
type GeminiService struct {
	Client *genai.Client
	Quota  *QuotaCounter
}

func NewGeminiService(ctx context.Context, apiKey string, quota *QuotaCounter) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiService{Client: client, Quota: quota}, nil
}

var plantSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":           {Type: genai.TypeString, Description: "Common Name in Bengali followed by English in brackets"},
		"scientificName": {Type: genai.TypeString, Description: "Scientific Name"},
		"water":          {Type: genai.TypeString, Description: "Watering instructions in Bengali using 'জল'"},
		"sunlight":       {Type: genai.TypeString, Description: "Sunlight needs in Bengali"},
		"soil":           {Type: genai.TypeString, Description: "Soil type in Bengali"},
		"care":           {Type: genai.TypeString, Description: "Short care tip in Bengali"},
		"disease":        {Type: genai.TypeString, Description: "Visual diagnosis of plant health in Bengali"},
		"tips":           {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "3 specific care tips in Bengali"},
	},
	Required: []string{"name", "scientificName", "water", "sunlight", "soil", "care", "disease", "tips"},
}

// IdentifyPlant runs the vision identification. Quota/network failures
// substitute the offline plant; NOT_PLANT and BLURRY verdicts come back as
// ErrNotAPlant / ErrBlurryImage for the handler to surface verbatim.
func (g *GeminiService) IdentifyPlant(ctx context.Context, image []byte, mimeType string) (*PlantData, error) {
	g.Quota.Increment(ctx)

	prompt := `Identify this plant. Provide the output in strictly valid JSON format matching the schema.
If it is not a plant, return "name": "NOT_PLANT".
If image is too blurry, return "name": "BLURRY".
IMPORTANT: Use the Bengali word 'জল' instead of 'পানি' everywhere.`

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := g.Client.Models.GenerateContent(ctx, geminiModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		ResponseSchema:    plantSchema,
		SystemInstruction: genai.NewContentFromText("You are a Botanist. Reply in Bengali (except scientific names).", genai.RoleUser),
	})
	if err != nil {
		log.Printf("❌ [GEMINI] identification failed: %v", err)
		if IsQuotaError(err) || isFetchError(err) {
			log.Println("⚠️ [GEMINI] using offline fallback due to API limits")
			return OfflinePlantData(), nil
		}
		return nil, err
	}

	var data PlantData
	if err := json.Unmarshal([]byte(resp.Text()), &data); err != nil {
		return nil, fmt.Errorf("could not parse identification response: %w", err)
	}

	switch data.Name {
	case "NOT_PLANT":
		return nil, ErrNotAPlant
	case "BLURRY":
		return nil, ErrBlurryImage
	case "":
		return nil, errors.New("could not identify plant")
	}
	return &data, nil
}

// SendChatMessage sends one message with history to the assistant persona.
// It always produces a reply string: failures degrade to canned replies.
func (g *GeminiService) SendChatMessage(ctx context.Context, message string, history []ChatTurn) string {
	g.Quota.Increment(ctx)

	prior := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == "model" {
			role = genai.RoleModel
		}
		prior = append(prior, genai.NewContentFromText(turn.Text, role))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"You are Sobuj Sathi, a cheerful gardening friend. Reply in Bengali. Use gardening idioms. Be concise (max 30 words). ALWAYS use 'জল' instead of 'পানি'.",
			genai.RoleUser,
		),
	}

	chat, err := g.Client.Chats.Create(ctx, geminiModel, config, prior)
	if err != nil {
		log.Printf("❌ [GEMINI] chat create failed: %v", err)
		if IsQuotaError(err) {
			return chatBusyReply
		}
		return chatFailureReply
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		log.Printf("❌ [GEMINI] chat send failed: %v", err)
		if IsQuotaError(err) {
			return chatBusyReply
		}
		return chatFailureReply
	}
	return resp.Text()
}

// GardeningTip returns one short tip. It never fails to the caller: any
// error picks a random static tip instead.
func (g *GeminiService) GardeningTip(ctx context.Context) string {
	g.Quota.Increment(ctx)

	contents := []*genai.Content{
		genai.NewContentFromText("Give me one short, unique gardening tip in Bengali. Keep it under 20 words.", genai.RoleUser),
	}
	resp, err := g.Client.Models.GenerateContent(ctx, geminiModel, contents, nil)
	if err != nil || resp.Text() == "" {
		if err != nil {
			log.Printf("⚠️ [GEMINI] tip generation failed, serving fallback: %v", err)
		}
		return FallbackTips[rand.Intn(len(FallbackTips))]
	}
	return resp.Text()
}

var missionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"label":      {Type: genai.TypeString},
		"sub":        {Type: genai.TypeString},
		"desc":       {Type: genai.TypeString},
		"xp":         {Type: genai.TypeInteger},
		"iconName":   {Type: genai.TypeString},
		"colorTheme": {Type: genai.TypeString},
	},
	Required: []string{"label", "sub", "desc", "xp", "iconName", "colorTheme"},
}

// GenerateMission produces one fresh eco mission, falling back to the static
// pool when generation fails.
func (g *GeminiService) GenerateMission(ctx context.Context) *models.Mission {
	g.Quota.Increment(ctx)

	contents := []*genai.Content{
		genai.NewContentFromText("Generate one unique, eco-friendly daily mission.", genai.RoleUser),
	}
	resp, err := g.Client.Models.GenerateContent(ctx, geminiModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   missionSchema,
		SystemInstruction: genai.NewContentFromText(
			"Output JSON with fields: label (Bengali), sub (English), desc (Bengali), xp (30-100), iconName (Leaf, Droplets, Sun, Wind, Sprout, Bug, Bird, Recycle, Heart), colorTheme (green, blue, orange, red, yellow).",
			genai.RoleUser,
		),
	})
	if err == nil {
		var parsed struct {
			Label      string `json:"label"`
			Sub        string `json:"sub"`
			Desc       string `json:"desc"`
			XP         int64  `json:"xp"`
			IconName   string `json:"iconName"`
			ColorTheme string `json:"colorTheme"`
		}
		if jsonErr := json.Unmarshal([]byte(resp.Text()), &parsed); jsonErr == nil && parsed.Label != "" {
			return &models.Mission{
				ID:         uuid.NewString(),
				Code:       "mission_" + uuid.NewString()[:8],
				Label:      parsed.Label,
				Sub:        parsed.Sub,
				Desc:       parsed.Desc,
				XP:         parsed.XP,
				IconName:   parsed.IconName,
				ColorTheme: parsed.ColorTheme,
				Source:     "ai",
				Active:     true,
			}
		}
	} else {
		log.Printf("⚠️ [GEMINI] mission generation failed, serving fallback: %v", err)
	}

	return FallbackMission()
}

// FallbackMission picks a random static mission with a fresh identity.
func FallbackMission() *models.Mission {
	m := FallbackMissions[rand.Intn(len(FallbackMissions))]
	m.ID = uuid.NewString()
	m.Code = "mission_fallback_" + uuid.NewString()[:8]
	m.Source = "fallback"
	m.Active = true
	return &m
}

// GeneratePlantImage renders a growth-stage illustration. An empty return
// means "use the static fallback image" and is not an error.
func (g *GeminiService) GeneratePlantImage(ctx context.Context, stage string) string {
	g.Quota.Increment(ctx)

	prompt := fmt.Sprintf(`A cute, high-quality, 3D isometric render of a plant in the %s stage.
The plant should look healthy and vibrant.
Dark blue or black background to match a dark mode app UI.
Cinematic lighting, glowing green details.`, stage)

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := g.Client.Models.GenerateContent(ctx, geminiImageModel, contents, nil)
	if err != nil {
		log.Printf("❌ [GEMINI] image generation failed for stage %s: %v", stage, err)
		return ""
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return EncodeImageDataURI(part.InlineData.MIMEType, part.InlineData.Data)
			}
		}
	}
	log.Printf("⚠️ [GEMINI] no image data returned for stage %s", stage)
	return ""
}
