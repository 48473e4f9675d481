package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/context/ctxhttp"

	"github.com/vipmap/inventory-server/config"
)

// Embed colors used by the activity log, decimal RGB.
const (
	colorBlue   = 3447003
	colorGreen  = 5763719
	colorYellow = 16776960
	colorRed    = 15548997
	colorPurple = 15844367
)

const defaultDiscordTimeout = 5 * time.Second

// DiscordLogger delivers loggable objects to Discord webhooks as embeds.
// Agent traffic goes to its own webhook when one is configured; everything
// else goes to the store webhook.
type DiscordLogger struct {
	httpClient      *http.Client
	webhookURL      string
	agentWebhookURL string
	timeout         time.Duration
}

func NewDiscordLogger(httpClient *http.Client, cfg config.Discord) (Module, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("analytics discord: webhook_url is required")
	}
	agentURL := cfg.AgentWebhookURL
	if agentURL == "" {
		agentURL = cfg.WebhookURL
	}
	timeout := defaultDiscordTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &DiscordLogger{
		httpClient:      httpClient,
		webhookURL:      cfg.WebhookURL,
		agentWebhookURL: agentURL,
		timeout:         timeout,
	}, nil
}

type embedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Timestamp string       `json:"timestamp"`
	Fields    []embedField `json:"fields"`
	Footer    embedFooter  `json:"footer"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

func (d *DiscordLogger) LogLoginObject(lo *LoginObject) {
	e := embed{
		Timestamp: lo.Time.Format(time.RFC3339),
	}
	switch lo.UserKind {
	case UserKindInventory:
		e.Title = "재고모드 로그인"
		e.Color = colorYellow
		e.Footer.Text = "VIP+ 재고모드 로그인"
		e.Fields = []embedField{
			{Name: "재고모드 정보", Value: fmt.Sprintf("ID: %s\n모드: 재고관리 전용", lo.UserID)},
			accessField(lo.IPAddress, lo.Location, lo.DeviceInfo),
		}
	case UserKindAgent:
		e.Title = "관리자 로그인"
		e.Color = colorPurple
		e.Footer.Text = "VIP+ 관리자 로그인"
		e.Fields = []embedField{
			{Name: "관리자 정보", Value: fmt.Sprintf("ID: %s\n대상: %s\n자격: %s", lo.UserID, orUnknown(lo.TargetName), orUnknown(lo.Qualification))},
			accessField(lo.IPAddress, lo.Location, lo.DeviceInfo),
		}
	default:
		e.Title = "매장 로그인"
		e.Color = colorGreen
		if !lo.Success {
			e.Title = "로그인 실패"
			e.Color = colorRed
		}
		e.Footer.Text = "VIP+ 매장 로그인"
		manager := lo.Manager
		if manager == "" {
			manager = "없음"
		}
		e.Fields = []embedField{
			{Name: "매장 정보", Value: fmt.Sprintf("ID: %s\n매장명: %s\n담당자: %s", lo.UserID, orUnknown(lo.TargetName), manager)},
			accessField(lo.IPAddress, lo.Location, lo.DeviceInfo),
		}
	}
	d.send(lo.UserKind, e)
}

func (d *DiscordLogger) LogActivityObject(ao *ActivityObject) {
	title, color := activityAppearance(ao.Activity)
	e := embed{
		Title:     title,
		Color:     color,
		Timestamp: ao.Time.Format(time.RFC3339),
		Footer:    embedFooter{Text: footerFor(ao.UserKind)},
		Fields: []embedField{
			userField(ao.UserID, ao.UserKind, ao.TargetName),
			accessField(ao.IPAddress, ao.Location, ao.DeviceInfo),
		},
	}
	if ao.Model != "" {
		value := "모델: " + ao.Model
		if ao.ColorName != "" {
			value += "\n색상: " + ao.ColorName
		}
		e.Fields = append(e.Fields, embedField{Name: "검색 정보", Value: value})
	}
	if ao.CallButton != "" {
		e.Fields = append(e.Fields, embedField{Name: "전화 연결", Value: ao.CallButton})
	}
	if ao.KakaoButton {
		e.Fields = append(e.Fields, embedField{Name: "카톡문구 생성", Value: "카카오톡 메시지 템플릿이 클립보드에 복사되었습니다."})
	}
	d.send(ao.UserKind, e)
}

func (d *DiscordLogger) Shutdown() {}

func activityAppearance(activity string) (string, int) {
	switch activity {
	case ActivityLogin:
		return "사용자 로그인", colorGreen
	case ActivitySearch:
		return "모델 검색", colorYellow
	case ActivityCallButton:
		return "전화 연결 버튼 클릭", colorRed
	case ActivityKakaoButton:
		return "카톡문구 생성", colorYellow
	default:
		return "사용자 활동", colorBlue
	}
}

func footerFor(userKind string) string {
	if userKind == UserKindAgent {
		return "VIP+ 관리자 활동 로그"
	}
	return "VIP+ 매장 활동 로그"
}

func userField(id, kind, target string) embedField {
	kindLabel := "일반"
	if kind == UserKindAgent {
		kindLabel = "관리자"
	}
	if target == "" {
		target = "없음"
	}
	return embedField{
		Name:  "사용자 정보",
		Value: fmt.Sprintf("ID: %s\n종류: %s\n대상: %s", id, kindLabel, target),
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "알 수 없음"
	}
	return s
}

func accessField(ip, location, device string) embedField {
	if ip == "" {
		ip = "알 수 없음"
	}
	if location == "" {
		location = "알 수 없음"
	}
	if device == "" {
		device = "알 수 없음"
	}
	return embedField{
		Name:  "접속 정보",
		Value: fmt.Sprintf("IP: %s\n위치: %s\n기기: %s", ip, location, device),
	}
}

// send posts one embed to the webhook matching the user kind. Delivery
// errors are logged and swallowed so analytics can never fail a request.
func (d *DiscordLogger) send(userKind string, e embed) {
	url := d.webhookURL
	if userKind == UserKindAgent {
		url = d.agentWebhookURL
	}

	body, err := json.Marshal(webhookPayload{Embeds: []embed{e}})
	if err != nil {
		glog.Errorf("analytics discord: marshaling embed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		glog.Errorf("analytics discord: building request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ctxhttp.Do(ctx, d.httpClient, req)
	if err != nil {
		glog.Warningf("analytics discord: webhook delivery failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		glog.Warningf("analytics discord: webhook returned status %d", resp.StatusCode)
	}
}
