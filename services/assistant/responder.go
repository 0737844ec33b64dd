// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package assistant

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mettakip/metassist/services/erp"
)

// SourceDemo marks answers produced by the deterministic responder.
const SourceDemo = "demo"

// Answer is the result of one question, live or demo.
type Answer struct {
	Text    string          `json:"text"`
	Success bool            `json:"success"`
	Source  string          `json:"source"`
	IsDemo  bool            `json:"isDemo,omitempty"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

// orderIDPattern matches display order ids like "#0424-1251" or
// "1234-567", with the leading '#' optional. Word-bounded so substrings
// of longer digit runs never pass for an order id.
var orderIDPattern = regexp.MustCompile(`\b#?\d{4}-\d{3,4}\b`)

// rule is one (predicate, handler) pair. Rules are evaluated in slice
// order; the first match wins, so specific predicates (status keyword plus
// category keyword) must stay ahead of their generic category rule.
type rule struct {
	name    string
	matches func(q string) bool
	answer  func(q string, snap Snapshot) string
}

// Responder is the deterministic demo answer generator used when no live
// provider is configured or reachable. It matches lower-cased questions
// against an ordered rule list and fills Turkish templates from the
// snapshot. Every answer it produces is marked Success:false, IsDemo:true.
type Responder struct {
	rules []rule
	now   func() time.Time
}

// NewResponder builds the responder with the standard rule order.
func NewResponder() *Responder {
	r := &Responder{now: time.Now}
	r.rules = []rule{
		{
			name:    "orders.delayed",
			matches: func(q string) bool { return orderKeyword(q) && containsAny(q, "geciken", "gecikme") },
			answer:  r.delayedOrders,
		},
		{
			name:    "orders.in_progress",
			matches: func(q string) bool { return orderKeyword(q) && containsAny(q, "devam eden", "üretim") },
			answer:  r.inProgressOrders,
		},
		{
			name:    "orders.by_id",
			matches: func(q string) bool { return orderIDPattern.MatchString(q) },
			answer:  r.orderByID,
		},
		{
			name:    "orders.summary",
			matches: orderKeyword,
			answer:  r.orderCounts,
		},
		{
			name:    "materials.critical",
			matches: func(q string) bool { return materialKeyword(q) && containsAny(q, "kritik", "acil") },
			answer:  r.criticalMaterials,
		},
		{
			name:    "materials.relays",
			matches: func(q string) bool { return materialKeyword(q) && containsAny(q, "röle", "role", "siemens") },
			answer:  r.relayMaterials,
		},
		{
			name:    "materials.summary",
			matches: materialKeyword,
			answer:  r.materialCounts,
		},
		{
			name:    "technical.cb",
			matches: func(q string) bool { return technicalKeyword(q) && containsAny(q, "cb", "kesici") },
			answer:  func(string, Snapshot) string { return technicalDocList("CB") },
		},
		{
			name:    "technical.lb",
			matches: func(q string) bool { return technicalKeyword(q) && containsAny(q, "lb", "yük") },
			answer:  func(string, Snapshot) string { return technicalDocList("LB") },
		},
		{
			name:    "technical.summary",
			matches: technicalKeyword,
			answer:  func(string, Snapshot) string { return technicalCategories },
		},
		{
			name:    "dashboard.summary",
			matches: func(q string) bool { return containsAny(q, "özet", "dashboard", "gösterge") },
			answer:  r.dashboardSummary,
		},
		{
			name:    "greeting",
			matches: func(q string) bool { return containsAny(q, "merhaba", "selam") },
			answer:  func(string, Snapshot) string { return "Merhaba! Size nasıl yardımcı olabilirim?" },
		},
		{
			name:    "help",
			matches: func(q string) bool { return containsAny(q, "yardım", "ne yapabilir", "nasıl kullan") },
			answer:  func(string, Snapshot) string { return helpText },
		},
	}
	return r
}

// Respond answers a question from the snapshot. lastAssistant is the most
// recent assistant message (or ""), used only for the topic-continuity
// hint on the fallback branch. A non-nil priorFailure means a live call
// already failed; its message is prepended so the developer can see what
// triggered the demo answer.
func (r *Responder) Respond(question string, snap Snapshot, lastAssistant string, priorFailure error) Answer {
	q := strings.ToLower(question)

	text := ""
	for _, rule := range r.rules {
		if rule.matches(q) {
			text = rule.answer(q, snap)
			break
		}
	}
	if text == "" {
		text = topicContinuity(lastAssistant) + fallbackText
	}
	if priorFailure != nil {
		text = fmt.Sprintf("API bağlantı sorunu: %v. Demo yanıt üretiliyor.\n\n%s", priorFailure, text)
	}

	return Answer{Text: text, Success: false, Source: SourceDemo, IsDemo: true}
}

func orderKeyword(q string) bool     { return containsAny(q, "sipariş", "order") }
func materialKeyword(q string) bool  { return containsAny(q, "malzeme", "stok", "material") }
func technicalKeyword(q string) bool { return containsAny(q, "teknik", "doküman", "belge", "çizim") }

func containsAny(q string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

func (r *Responder) delayedOrders(_ string, snap Snapshot) string {
	var lines []string
	for _, o := range snap.Orders {
		if o.Status == erp.StatusDelayed {
			lines = append(lines, fmt.Sprintf("- %s no'lu %s firmasına ait %s hücresi (İlerleme: %%%d)",
				o.ID, o.Customer, o.CellType, o.Progress))
		}
	}
	if len(lines) == 0 {
		return "Şu anda geciken sipariş bulunmamaktadır."
	}
	return fmt.Sprintf("Sistemde geciken %d sipariş bulunmaktadır:\n\n%s",
		len(lines), strings.Join(lines, "\n"))
}

func (r *Responder) inProgressOrders(_ string, snap Snapshot) string {
	var lines []string
	for _, o := range snap.Orders {
		if o.Status == erp.StatusInProgress {
			lines = append(lines, fmt.Sprintf("- %s - %s - %s (İlerleme: %%%d)",
				o.ID, o.Customer, o.CellType, o.Progress))
		}
	}
	if len(lines) == 0 {
		return "Şu anda üretimi devam eden sipariş bulunmamaktadır."
	}
	return fmt.Sprintf("Şu anda üretimi devam eden %d sipariş bulunmaktadır:\n\n%s",
		len(lines), strings.Join(lines, "\n"))
}

func (r *Responder) orderByID(q string, snap Snapshot) string {
	id := orderIDPattern.FindString(q)
	if !strings.HasPrefix(id, "#") {
		id = "#" + id
	}
	for _, o := range snap.Orders {
		if o.ID == id {
			return orderDetail(o)
		}
	}
	return fmt.Sprintf("%s numaralı sipariş bulunamadı.", id)
}

// orderDetail renders the stage checklist. The production stages are
// gated at fixed progress thresholds (10/30/50/70/90).
func orderDetail(o erp.Order) string {
	stage := func(threshold int) string {
		if o.Progress > threshold {
			return "✓ Tamamlandı"
		}
		return "○ Bekliyor"
	}
	return fmt.Sprintf("%s no'lu sipariş bilgileri:\n\n"+
		"Müşteri: %s\nHücre Tipi: %s\nDurum: %s\nİlerleme: %%%d\n\n"+
		"Üretim aşamaları:\n"+
		"- Tasarım: %s\n"+
		"- Malzeme: %s\n"+
		"- Mekanik Üretim: %s\n"+
		"- Montaj: %s\n"+
		"- Test: %s",
		o.ID, o.Customer, o.CellType, o.Status, o.Progress,
		stage(10), stage(30), stage(50), stage(70), stage(90))
}

func (r *Responder) orderCounts(_ string, snap Snapshot) string {
	var delayed, inProgress, planned int
	for _, o := range snap.Orders {
		switch o.Status {
		case erp.StatusDelayed:
			delayed++
		case erp.StatusInProgress:
			inProgress++
		case erp.StatusPlanned:
			planned++
		}
	}
	return fmt.Sprintf("Sistemde toplam %d aktif sipariş bulunmaktadır. "+
		"%d sipariş gecikmiş durumda, %d sipariş devam ediyor, %d sipariş ise henüz planlanma aşamasında. "+
		`Detaylı bilgi için "siparişler" sayfasını inceleyebilirsiniz.`,
		len(snap.Orders), delayed, inProgress, planned)
}

func (r *Responder) criticalMaterials(_ string, snap Snapshot) string {
	var lines []string
	for _, m := range snap.Materials {
		if m.Status == erp.MaterialCritical {
			lines = append(lines, fmt.Sprintf("- %s (Stok: %d, İhtiyaç: %d)", m.Name, m.Stock, m.Required))
		}
	}
	if len(lines) == 0 {
		return "Şu anda kritik seviyede malzeme bulunmamaktadır."
	}
	return fmt.Sprintf("Kritik seviyede olan malzemeler:\n\n%s", strings.Join(lines, "\n"))
}

func (r *Responder) relayMaterials(_ string, snap Snapshot) string {
	var lines []string
	for _, m := range snap.Materials {
		name := strings.ToLower(m.Name)
		if strings.Contains(name, "siemens") || strings.Contains(name, "röle") || strings.Contains(name, "role") {
			lines = append(lines, fmt.Sprintf("- %s (Stok: %d, Durum: %s)", m.Name, m.Stock, m.Status))
		}
	}
	if len(lines) == 0 {
		return "Röle ile ilgili sonuç bulunamadı."
	}
	return fmt.Sprintf("Röle ile ilgili malzeme sonuçları:\n\n%s", strings.Join(lines, "\n"))
}

func (r *Responder) materialCounts(_ string, snap Snapshot) string {
	var critical, ordered int
	for _, m := range snap.Materials {
		switch m.Status {
		case erp.MaterialCritical:
			critical++
		case erp.MaterialOrdered:
			ordered++
		}
	}
	return fmt.Sprintf("Sistemde toplam %d farklı malzeme kaydı bulunmaktadır. "+
		"%d malzeme kritik seviyede, %d malzeme sipariş edilmiş durumda. "+
		`Detaylı bilgi için "Stok Yönetimi" sayfasını inceleyebilirsiniz.`,
		len(snap.Materials), critical, ordered)
}

func (r *Responder) dashboardSummary(_ string, snap Snapshot) string {
	return fmt.Sprintf("Günlük üretim özeti (%s):\n\n"+
		"- Toplam Aktif Sipariş: %d\n"+
		"- Geciken Siparişler: %d\n"+
		"- Kritik Malzemeler: %d\n"+
		"- Üretim Verimliliği: %%%d\n\n"+
		"Detaylı bilgi için Dashboard sayfasını inceleyebilirsiniz.",
		r.now().Format("02.01.2006"),
		snap.Stats.TotalOrders, snap.Stats.DelayedOrders,
		snap.Stats.CriticalMaterials, snap.Stats.ProductionEfficiency)
}

func technicalDocList(cellType string) string {
	return fmt.Sprintf("%[1]s tipi hücreler için teknik belgeler:\n\n"+
		"- %[1]s Teknik Şartname\n"+
		"- %[1]s Montaj Talimatları\n"+
		"- %[1]s Test Prosedürü\n"+
		"- %[1]s CAD Çizimleri\n\n"+
		`Belgelere erişmek için "Teknik Belgeler > %[1]s Dokümanları" menüsünü kullanabilirsiniz.`, cellType)
}

const technicalCategories = "Teknik belgeler modülünde aşağıdaki kategorilerde dokümanlar bulabilirsiniz:\n\n" +
	"- CB Dokümanları\n- LB Dokümanları\n- FL Dokümanları\n- RMU Dokümanları\n" +
	"- Test Raporları\n- Sertifikalar\n- CAD Çizimleri\n\n" +
	`İlgili dokümanlara erişmek için sol menüdeki "Teknik Belgeler" bölümünü kullanabilirsiniz.`

const helpText = "Size nasıl yardımcı olabilirim:\n\n" +
	"• Siparişler hakkında bilgi verebilirim (örn. \"Geciken siparişler hangileri?\")\n" +
	"• Stok ve malzeme durumunu kontrol edebilirim (örn. \"Kritik malzeme var mı?\")\n" +
	"• Teknik belgeler hakkında bilgi verebilirim (örn. \"CB teknik belgeleri neler?\")\n" +
	"• Günlük üretim özeti sunabilirim (örn. \"Günlük üretim özeti\")\n\n" +
	"Spesifik bir sipariş veya malzeme hakkında bilgi almak için ID veya isim belirterek sorabilirsiniz."

const fallbackText = "Üzgünüm, bu konuda spesifik bir bilgim yok. " +
	"Siparişler, malzemeler veya teknik belgeler hakkında sorular sorabilirsiniz. " +
	`Size nasıl yardımcı olabileceğim konusunda daha fazla bilgi için "yardım" yazabilirsiniz.`

// continuityTopics maps a keyword found in the last assistant message to
// the topic name used in the continuity hint. Evaluated in slice order so
// the hint is deterministic when several keywords appear.
var continuityTopics = []struct {
	keyword string
	topic   string
}{
	{"sipariş", "siparişler"},
	{"malzeme", "malzeme ve stok"},
	{"teknik", "teknik belgeler"},
	{"özet", "üretim özeti"},
}

func topicContinuity(lastAssistant string) string {
	if lastAssistant == "" {
		return ""
	}
	content := strings.ToLower(lastAssistant)
	for _, t := range continuityTopics {
		if strings.Contains(content, t.keyword) {
			return fmt.Sprintf("%s hakkında konuşmaya devam ediyoruz. ", t.topic)
		}
	}
	return ""
}
