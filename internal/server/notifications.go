package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/config"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/engine"
)

const (
	notificatieKanaal   = "zaken"
	notificatieInterval = 2 * time.Second
	notificatieTimeout  = 5 * time.Second
	notificatieBatch    = 100
)

// notificatieDispatcher polls the event log and pushes notificaties to the
// configured hooks. Each hook keeps its own cursor, so a slow subscriber never
// blocks the others.
type notificatieDispatcher struct {
	engine  engine.Engine
	hooks   []config.Hook
	client  *http.Client
	mu      sync.Mutex
	cursors map[int]int64
}

func startNotificatieDispatcher(e engine.Engine) {
	if e.Config == nil || len(e.Config.Notificaties.Hooks) == 0 {
		return
	}
	d := &notificatieDispatcher{
		engine:  e,
		hooks:   e.Config.Notificaties.Hooks,
		client:  &http.Client{Timeout: notificatieTimeout},
		cursors: make(map[int]int64),
	}
	go d.run()
}

func (d *notificatieDispatcher) run() {
	ticker := time.NewTicker(notificatieInterval)
	defer ticker.Stop()
	for {
		d.dispatchAll()
		<-ticker.C
	}
}

func (d *notificatieDispatcher) dispatchAll() {
	for i, hook := range d.hooks {
		if !hook.IsEnabled() || strings.TrimSpace(hook.URL) == "" {
			continue
		}
		d.dispatchHook(i, hook)
	}
}

func (d *notificatieDispatcher) dispatchHook(idx int, hook config.Hook) {
	ctx := context.Background()
	cursor := d.cursorFor(idx)
	evts, err := d.engine.Repo.EventsAfter(ctx, notificatieBatch, cursor, "")
	if err != nil {
		log.Printf("notificaties: fetch events failed: %v", err)
		return
	}
	filter := newKanaalFilter(hook.Kanalen)
	for _, evt := range evts {
		if !filter.match(notificatieKanaal) {
			d.setCursor(idx, evt.ID)
			continue
		}
		if err := d.post(ctx, hook, evt); err != nil {
			log.Printf("notificaties: deliver to %s failed: %v", hook.URL, err)
			return
		}
		d.setCursor(idx, evt.ID)
	}
}

func (d *notificatieDispatcher) cursorFor(idx int) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cur, ok := d.cursors[idx]; ok {
		return cur
	}
	// New hooks start at the tail; historical events are not replayed.
	var cur int64
	row := d.engine.DB.QueryRow(`SELECT COALESCE(MAX(id),0) FROM events`)
	if err := row.Scan(&cur); err != nil {
		log.Printf("notificaties: init cursor failed: %v", err)
		cur = 0
	}
	d.cursors[idx] = cur
	return cur
}

func (d *notificatieDispatcher) setCursor(idx int, value int64) {
	d.mu.Lock()
	d.cursors[idx] = value
	d.mu.Unlock()
}

// notificatie is the message envelope subscribers receive.
type notificatie struct {
	Kanaal       string          `json:"kanaal"`
	HoofdObject  string          `json:"hoofdObject"`
	Resource     string          `json:"resource"`
	ResourceID   string          `json:"resourceId,omitempty"`
	Actie        string          `json:"actie"`
	Aanmaakdatum string          `json:"aanmaakdatum"`
	Kenmerken    json.RawMessage `json:"kenmerken"`
}

var actieVertaling = map[string]string{
	"aangemaakt": "create",
	"toegevoegd": "create",
	"gezet":      "create",
	"bijgewerkt": "partial_update",
	"gesloten":   "update",
	"heropend":   "update",
	"verwijderd": "destroy",
}

func (d *notificatieDispatcher) post(ctx context.Context, hook config.Hook, evt domain.Event) error {
	kenmerken := json.RawMessage([]byte("{}"))
	if evt.Payload != "" && json.Valid([]byte(evt.Payload)) {
		kenmerken = json.RawMessage([]byte(evt.Payload))
	}
	resource, actie := splitEventType(evt.Type)
	body := notificatie{
		Kanaal:       notificatieKanaal,
		HoofdObject:  evt.ZaakID,
		Resource:     resource,
		ResourceID:   evt.EntityID,
		Actie:        actie,
		Aanmaakdatum: evt.TS,
		Kenmerken:    kenmerken,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Zrc-Event", evt.Type)
	req.Header.Set("X-Zrc-Delivery", fmt.Sprintf("%d", evt.ID))
	res, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}
	return nil
}

func splitEventType(evtType string) (resource, actie string) {
	resource, actie, ok := strings.Cut(evtType, ".")
	if !ok {
		return evtType, "update"
	}
	if vertaald, ok := actieVertaling[actie]; ok {
		actie = vertaald
	}
	return resource, actie
}

type kanaalFilter struct {
	all bool
	set map[string]struct{}
}

func newKanaalFilter(kanalen []string) kanaalFilter {
	if len(kanalen) == 0 {
		return kanaalFilter{all: true}
	}
	set := make(map[string]struct{}, len(kanalen))
	for _, k := range kanalen {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	if len(set) == 0 {
		return kanaalFilter{all: true}
	}
	return kanaalFilter{set: set}
}

func (f kanaalFilter) match(kanaal string) bool {
	if f.all {
		return true
	}
	_, ok := f.set[kanaal]
	return ok
}
