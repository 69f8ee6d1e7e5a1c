package services

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MailchimpTagger implements CRMTagger with the Mailchimp Marketing API
type MailchimpTagger struct {
	apiKey  string
	listID  string
	baseURL string
	client  *http.Client
}

type mailchimpMember struct {
	EmailAddress string            `json:"email_address"`
	StatusIfNew  string            `json:"status_if_new"`
	MergeFields  map[string]string `json:"merge_fields"`
}

type mailchimpTag struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type mailchimpTagsRequest struct {
	Tags []mailchimpTag `json:"tags"`
}

type mailchimpError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// NewMailchimpTagger creates a tagger for one audience list; serverPrefix is the data center, e.g. us21
func NewMailchimpTagger(apiKey, serverPrefix, listID string) *MailchimpTagger {
	return &MailchimpTagger{
		apiKey:  apiKey,
		listID:  listID,
		baseURL: fmt.Sprintf("https://%s.api.mailchimp.com/3.0", serverPrefix),
		client:  &http.Client{},
	}
}

// InitCRMTagger registers the Mailchimp tagger as the process-wide CRM tagger
func InitCRMTagger(apiKey, serverPrefix, listID string) CRMTagger {
	crmTaggerInstance = NewMailchimpTagger(apiKey, serverPrefix, listID)
	return crmTaggerInstance
}

// SubscriberHash is the Mailchimp member id: MD5 of the lowercased address
func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

// Tag upserts the member with the rendered subject and body, then activates the event tags
func (m *MailchimpTagger) Tag(ctx context.Context, contact CRMContact, email Email) error {
	if m.apiKey == "" || m.listID == "" {
		return errors.New("mailchimp is not configured")
	}

	memberURL := fmt.Sprintf("%s/lists/%s/members/%s", m.baseURL, m.listID, SubscriberHash(contact.Email))

	member := mailchimpMember{
		EmailAddress: contact.Email,
		StatusIfNew:  "subscribed",
		MergeFields: map[string]string{
			"FNAME":   contact.Name,
			"PHONE":   contact.Phone,
			"SUBJECT": email.Subject,
			"BODY":    email.HTML,
		},
	}
	if err := m.send(ctx, http.MethodPut, memberURL, member); err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}

	tags := mailchimpTagsRequest{Tags: make([]mailchimpTag, 0, len(email.Tags))}
	for _, tag := range email.Tags {
		tags.Tags = append(tags.Tags, mailchimpTag{Name: tag, Status: "active"})
	}
	if err := m.send(ctx, http.MethodPost, memberURL+"/tags", tags); err != nil {
		return fmt.Errorf("attach tags: %w", err)
	}
	return nil
}

func (m *MailchimpTagger) send(ctx context.Context, method, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth("adcut", m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var apiErr mailchimpError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Detail != "" {
			return fmt.Errorf("mailchimp API error (%d): %s", resp.StatusCode, apiErr.Detail)
		}
		return fmt.Errorf("mailchimp API error (%d)", resp.StatusCode)
	}
	return nil
}
