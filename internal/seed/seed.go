// Package seed fills an empty HOA backend with sample data through its REST
// API.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/zYagamiBR/hoa-helper/internal/dashboard/apiclient"
)

// API is the part of the REST client the loader uses.
type API interface {
	Create(ctx context.Context, path string, body any) (apiclient.Record, error)
}

// Count is the number of records created in one collection.
type Count struct {
	Collection string
	Created    int
}

// Loader creates the sample records. The same seed and clock always produce
// the same requests.
type Loader struct {
	api  API
	log  *zap.Logger
	rng  *rand.Rand
	now  time.Time
	made []Count
}

// NewLoader returns a loader whose random choices come from seed and whose
// dates are relative to now.
func NewLoader(api API, log *zap.Logger, seed int64, now time.Time) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{api: api, log: log, rng: rand.New(rand.NewSource(seed)), now: now}
}

type sample struct {
	name string
	run  func(context.Context) error
}

// Run creates every collection in dependency order and stops at the first
// failure. The counts of what was created so far are returned either way.
func (l *Loader) Run(ctx context.Context) ([]Count, error) {
	var residentIDs, vendorIDs []int64
	steps := []sample{
		{"residents", func(ctx context.Context) (err error) {
			residentIDs, err = l.createAll(ctx, "/residents", residents)
			return err
		}},
		{"vendors", func(ctx context.Context) (err error) {
			vendorIDs, err = l.createAll(ctx, "/vendors", vendors)
			return err
		}},
		{"associates", func(ctx context.Context) error {
			_, err := l.createAll(ctx, "/associates", associates)
			return err
		}},
		{"bills", func(ctx context.Context) error {
			_, err := l.createAll(ctx, "/bills", bills)
			return err
		}},
		{"payments", func(ctx context.Context) error {
			_, err := l.createAll(ctx, "/payments", l.payments(residentIDs))
			return err
		}},
		{"invoices", func(ctx context.Context) error {
			_, err := l.createAll(ctx, "/invoices", l.invoices(vendorIDs))
			return err
		}},
		{"maintenance", func(ctx context.Context) error {
			_, err := l.createAll(ctx, "/maintenance", l.maintenance(residentIDs))
			return err
		}},
		{"events", func(ctx context.Context) error {
			_, err := l.createAll(ctx, "/events", l.events())
			return err
		}},
		{"violations", func(ctx context.Context) error {
			_, err := l.createAll(ctx, "/violations", l.violations(residentIDs))
			return err
		}},
	}

	l.made = nil
	for _, step := range steps {
		l.log.Info("creating sample records", zap.String("collection", step.name))
		if err := step.run(ctx); err != nil {
			return l.made, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}
	return l.made, nil
}

func (l *Loader) createAll(ctx context.Context, path string, bodies []map[string]any) ([]int64, error) {
	count := Count{Collection: path[1:]}
	defer func() { l.made = append(l.made, count) }()

	ids := make([]int64, 0, len(bodies))
	for i, body := range bodies {
		record, err := l.api.Create(ctx, path, body)
		if err != nil {
			return ids, fmt.Errorf("record %d: %w", i+1, err)
		}
		count.Created++
		id, _ := record.ID()
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			ids = append(ids, n)
		}
	}
	return ids, nil
}

func (l *Loader) pick(values ...string) string {
	return values[l.rng.Intn(len(values))]
}

func (l *Loader) pickID(ids []int64) any {
	if len(ids) == 0 {
		return nil
	}
	return ids[l.rng.Intn(len(ids))]
}

func (l *Loader) daysAgo(max int) time.Time {
	return l.now.AddDate(0, 0, -(1 + l.rng.Intn(max)))
}

var residents = []map[string]any{
	{"name": "Maria Silva Santos", "email": "maria.silva@email.com", "building": 1, "apartment": 101, "phone": "(11) 99999-1001"},
	{"name": "João Carlos Oliveira", "email": "joao.oliveira@email.com", "building": 1, "apartment": 102, "phone": "(11) 99999-1002"},
	{"name": "Ana Paula Costa", "email": "ana.costa@email.com", "building": 2, "apartment": 201, "phone": "(11) 99999-1003"},
	{"name": "Carlos Eduardo Lima", "email": "carlos.lima@email.com", "building": 2, "apartment": 202, "phone": "(11) 99999-1004"},
	{"name": "Fernanda Rodrigues", "email": "fernanda.rodrigues@email.com", "building": 3, "apartment": 301, "phone": "(11) 99999-1005"},
	{"name": "Roberto Almeida", "email": "roberto.almeida@email.com", "building": 3, "apartment": 302, "phone": "(11) 99999-1006"},
	{"name": "Juliana Pereira", "email": "juliana.pereira@email.com", "building": 4, "apartment": 401, "phone": "(11) 99999-1007"},
	{"name": "Marcos Antonio", "email": "marcos.antonio@email.com", "building": 5, "apartment": 101, "phone": "(11) 99999-1008"},
}

var vendors = []map[string]any{
	{"name": "Empresa de Limpeza Clean Master", "email": "contato@cleanmaster.com", "phone": "(11) 3333-1001", "services": "Limpeza e conservação predial"},
	{"name": "Segurança Total Ltda", "email": "comercial@segurancatotal.com", "phone": "(11) 3333-1002", "services": "Serviços de segurança e portaria"},
	{"name": "Jardinagem Verde Vida", "email": "atendimento@verdevida.com", "phone": "(11) 3333-1003", "services": "Jardinagem e paisagismo"},
	{"name": "Manutenção Predial Pro", "email": "servicos@predialpro.com", "phone": "(11) 3333-1004", "services": "Manutenção predial e reparos"},
	{"name": "Elevadores Express", "email": "manutencao@elevadoresexpress.com", "phone": "(11) 3333-1005", "services": "Manutenção de elevadores"},
	{"name": "Piscinas Cristal", "email": "contato@piscinascristal.com", "phone": "(11) 3333-1006", "services": "Tratamento e manutenção de piscinas"},
	{"name": "Elétrica São Paulo", "email": "eletrica@eletricasp.com", "phone": "(11) 3333-1007", "services": "Serviços elétricos e instalações"},
}

var associates = []map[string]any{
	{"name": "José da Silva", "position": "Porteiro", "department": "Doorman", "work_area": "Buildings", "monthly_salary": "2500.00", "hire_date": "2023-01-15", "status": "Active"},
	{"name": "Maria das Graças", "position": "Faxineira", "department": "Cleaning", "work_area": "Buildings", "monthly_salary": "2200.00", "hire_date": "2023-02-01", "status": "Active"},
	{"name": "Carlos Santos", "position": "Zelador", "department": "Maintenance", "work_area": "Mixed", "monthly_salary": "2800.00", "hire_date": "2023-03-10", "status": "Active"},
	{"name": "Ana Lucia", "position": "Administradora", "department": "HOA", "work_area": "HOA", "monthly_salary": "4500.00", "hire_date": "2022-11-20", "status": "Active"},
	{"name": "Pedro Oliveira", "position": "Segurança", "department": "Security", "work_area": "Buildings", "monthly_salary": "2600.00", "hire_date": "2023-04-05", "status": "Active"},
}

var bills = []map[string]any{
	{"title": "Energia elétrica áreas comuns", "amount": "450.00", "vendor_name": "CEMIG", "category": "utilities", "frequency": "monthly", "due_day": 10, "status": "active", "auto_pay": true},
	{"title": "Água e esgoto", "amount": "1200.00", "vendor_name": "SABESP", "category": "utilities", "frequency": "monthly", "due_day": 15, "status": "active"},
	{"title": "Seguro predial", "amount": "8400.00", "vendor_name": "Porto Seguro", "category": "insurance", "frequency": "yearly", "due_day": 5, "status": "active"},
	{"title": "Manutenção dos elevadores", "amount": "980.00", "vendor_name": "Elevadores Express", "category": "elevator", "frequency": "monthly", "due_day": 20, "status": "active"},
	{"title": "Internet portaria", "amount": "149.90", "vendor_name": "Vivo", "category": "internet", "frequency": "monthly", "due_day": 8, "status": "active", "auto_pay": true},
	{"title": "Contabilidade", "amount": "1650.00", "vendor_name": "Contábil Alfa", "category": "accounting", "frequency": "quarterly", "due_day": 25, "status": "inactive"},
}

func (l *Loader) payments(residentIDs []int64) []map[string]any {
	out := make([]map[string]any, 0, 15)
	for i := 0; i < 15 && len(residentIDs) > 0; i++ {
		paid := l.daysAgo(90)
		out = append(out, map[string]any{
			"resident_id":    l.pickID(residentIDs),
			"amount":         l.pick("850.00", "950.00", "1050.00", "1150.00"),
			"payment_type":   "monthly_fee",
			"payment_method": l.pick("pix", "bank_transfer", "check"),
			"payment_date":   paid.Format("2006-01-02"),
			"description":    "Taxa de condomínio - " + paid.Format("01/2006"),
			"status":         "completed",
		})
	}
	return out
}

var invoiceCategories = []string{"Limpeza", "Segurança", "Manutenção", "Jardinagem", "Elevadores", "Utilidades", "Administração"}

func (l *Loader) invoices(vendorIDs []int64) []map[string]any {
	out := make([]map[string]any, 0, 12)
	for i := 0; i < 12 && len(vendorIDs) > 0; i++ {
		issued := l.daysAgo(90)
		category := l.pick(invoiceCategories...)
		cents := 50000 + l.rng.Intn(450001)
		out = append(out, map[string]any{
			"invoice_number": fmt.Sprintf("INV-%d-%04d", issued.Year(), i+1),
			"vendor_id":      l.pickID(vendorIDs),
			"amount":         fmt.Sprintf("%d.%02d", cents/100, cents%100),
			"reason":         "Serviços de " + category + " conforme contrato",
			"description":    "Serviços de " + category + " - " + issued.Format("01/2006"),
			"category":       category,
			"authorized_by":  "Ana Lucia - Administradora",
			"invoice_date":   issued.Format("2006-01-02"),
			"due_date":       issued.AddDate(0, 0, 30).Format("2006-01-02"),
			"status":         l.pick("pending", "paid", "overdue"),
		})
	}
	return out
}

var issues = []string{
	"Vazamento no banheiro",
	"Problema na fechadura da porta",
	"Lâmpada queimada no corredor",
	"Elevador fazendo ruído estranho",
	"Infiltração na parede",
	"Problema na torneira da cozinha",
	"Porta do interfone não abre",
	"Problema no ar condicionado",
}

func (l *Loader) maintenance(residentIDs []int64) []map[string]any {
	out := make([]map[string]any, 0, 10)
	for i := 0; i < 10; i++ {
		issue := l.pick(issues...)
		out = append(out, map[string]any{
			"resident_id": l.pickID(residentIDs),
			"title":       issue,
			"description": "Solicitação de reparo: " + issue + ".",
			"priority":    l.pick("low", "medium", "high"),
			"status":      l.pick("open", "in_progress", "completed"),
			"category":    l.pick("electrical", "plumbing", "general"),
		})
	}
	return out
}

func (l *Loader) events() []map[string]any {
	at := func(days int) string {
		d := l.now.AddDate(0, 0, days)
		return time.Date(d.Year(), d.Month(), d.Day(), 19, 0, 0, 0, time.UTC).Format("2006-01-02T15:04")
	}
	return []map[string]any{
		{"title": "Assembleia Geral Ordinária", "description": "Assembleia anual para aprovação do orçamento e prestação de contas",
			"event_date": at(30), "location": "Salão de Festas", "max_attendees": 100, "event_type": "meeting"},
		{"title": "Festa Junina do Condomínio", "description": "Festa tradicional com comidas típicas e quadrilha",
			"event_date": at(15), "location": "Área de Lazer", "max_attendees": 150, "event_type": "social"},
		{"title": "Reunião do Conselho", "description": "Reunião mensal do conselho consultivo",
			"event_date": at(7), "location": "Sala de Reuniões", "max_attendees": 20, "event_type": "meeting"},
		{"title": "Curso de Primeiros Socorros", "description": "Treinamento básico de primeiros socorros para moradores",
			"event_date": at(45), "location": "Salão de Festas", "max_attendees": 30, "event_type": "social"},
		{"title": "Campanha de Vacinação Pet", "description": "Vacinação gratuita para cães e gatos dos moradores",
			"event_date": at(20), "location": "Área Externa", "max_attendees": 50, "event_type": "social"},
	}
}

var violationKinds = []struct{ kind, description, severity string }{
	{"Ruído excessivo", "Música alta após 22h em dia de semana", "medium"},
	{"Uso inadequado da área comum", "Deixou objetos pessoais na área da piscina", "low"},
	{"Descumprimento de regras de pets", "Cachorro solto na área comum sem coleira", "medium"},
	{"Estacionamento irregular", "Veículo estacionado em vaga de visitante por mais de 24h", "low"},
	{"Alteração não autorizada", "Instalação de ar condicionado sem aprovação do condomínio", "high"},
	{"Descarte irregular de lixo", "Lixo colocado fora do horário estabelecido", "low"},
}

func (l *Loader) violations(residentIDs []int64) []map[string]any {
	out := make([]map[string]any, 0, 8)
	for i := 0; i < 8; i++ {
		v := violationKinds[l.rng.Intn(len(violationKinds))]
		out = append(out, map[string]any{
			"resident_id":    l.pickID(residentIDs),
			"violation_type": v.kind,
			"description":    v.description,
			"severity":       v.severity,
			"status":         l.pick("open", "resolved", "closed"),
			"reported_date":  l.daysAgo(45).Format("2006-01-02T15:04"),
		})
	}
	return out
}
