package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ResolveNames pages through the group's members and builds an id-to-name
// mapping. A page shorter than the page size signals end-of-data.
func (d *implDirectory) ResolveNames(ctx context.Context, groupID string) (map[string]string, error) {
	names := make(map[string]string)

	for offset := 0; ; offset += d.pageSize {
		page, err := d.listMembers(ctx, groupID, d.pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list members: %w", err)
		}

		for _, m := range page {
			id := m.UserID
			if id == "" {
				continue
			}
			if name := m.displayName(); name != "" {
				names[id] = name
			}
		}

		if len(page) < d.pageSize {
			break
		}
	}

	d.logger.Debug(ctx, "Resolved %d member names for group %s", len(names), groupID)
	return names, nil
}

// displayName prefers the full name, then the username, then the raw
// directory identifier.
func (m Member) displayName() string {
	full := strings.TrimSpace(strings.TrimSpace(m.FirstName) + " " + strings.TrimSpace(m.LastName))
	if full != "" {
		return full
	}
	if m.Username != "" {
		return m.Username
	}
	return m.Identifier
}

func (d *implDirectory) listMembers(ctx context.Context, groupID string, limit, offset int) ([]Member, error) {
	u := fmt.Sprintf("%s/groups/%s/members?limit=%d&offset=%d",
		d.baseURL, url.PathEscape(groupID), limit, offset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("members page offset %s: %s: %s", strconv.Itoa(offset), resp.Status, string(body))
	}

	var page []Member
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode members page: %w", err)
	}
	return page, nil
}
