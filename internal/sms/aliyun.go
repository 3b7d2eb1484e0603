package sms

import (
	"context"
	"fmt"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	dypnsapi "github.com/alibabacloud-go/dypnsapi-20170525/v3/client"
	"github.com/alibabacloud-go/tea/tea"
)

// AliyunSender delivers verification codes through the Aliyun
// Phone Number Service (dypnsapi).
type AliyunSender struct {
	client       *dypnsapi.Client
	signName     string
	templateCode string
}

// AliyunConfig holds Aliyun SMS credentials and template settings
type AliyunConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	SignName        string
	TemplateCode    string
}

// NewAliyunSender creates an AliyunSender
func NewAliyunSender(cfg AliyunConfig) (*AliyunSender, error) {
	client, err := dypnsapi.NewClient(&openapi.Config{
		AccessKeyId:     tea.String(cfg.AccessKeyID),
		AccessKeySecret: tea.String(cfg.AccessKeySecret),
		Endpoint:        tea.String("dypnsapi.aliyuncs.com"),
	})
	if err != nil {
		return nil, fmt.Errorf("create aliyun sms client: %w", err)
	}
	return &AliyunSender{
		client:       client,
		signName:     cfg.SignName,
		templateCode: cfg.TemplateCode,
	}, nil
}

// Send delivers the code via SMS
func (s *AliyunSender) Send(_ context.Context, phone, code string) error {
	req := &dypnsapi.SendSmsVerifyCodeRequest{
		PhoneNumber:   tea.String(phone),
		SignName:      tea.String(s.signName),
		TemplateCode:  tea.String(s.templateCode),
		TemplateParam: tea.String(fmt.Sprintf(`{"code":"%s"}`, code)),
	}

	resp, err := s.client.SendSmsVerifyCode(req)
	if err != nil {
		return fmt.Errorf("send sms to %s: %w", MaskPhone(phone), err)
	}
	if resp.Body == nil || resp.Body.Code == nil || *resp.Body.Code != "OK" {
		return fmt.Errorf("send sms to %s: provider rejected request", MaskPhone(phone))
	}
	return nil
}
