package handlers

import (
	"net/http"

	"gymledger/internal/config"
	"gymledger/internal/db"
	"gymledger/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner     db.TxRunner
	cfg          config.Config
	users        UserStore
	packs        PackStore
	classTypes   ClassTypeStore
	teachers     TeacherStore
	schedules    ScheduleStore
	reservations ReservationStore
	payments     PaymentStore
	audit        AuditStore
	ledger       LedgerService
	hub          *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, packs PackStore, classTypes ClassTypeStore, teachers TeacherStore, schedules ScheduleStore, reservations ReservationStore, payments PaymentStore, audit AuditStore, ledger LedgerService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:     txRunner,
		cfg:          cfg,
		users:        users,
		packs:        packs,
		classTypes:   classTypes,
		teachers:     teachers,
		schedules:    schedules,
		reservations: reservations,
		payments:     payments,
		audit:        audit,
		ledger:       ledger,
		hub:          hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/ledger", func(r chi.Router) {
		r.Post("/decrement", h.DecrementCredits)
		r.Post("/confirm-attendance", h.ConfirmAttendance)
		r.Post("/assign-pack", h.AssignPack)
		r.Post("/remove-pack", h.RemovePack)
		r.Get("/pack-info/{userID}", h.PackInfo)
		r.Get("/current-class/{userID}", h.CurrentClass)
		r.Get("/next-class/{userID}", h.NextClass)
	})

	router.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})
	router.Route("/packs", func(r chi.Router) {
		r.Post("/", h.CreatePack)
		r.Get("/", h.ListPacks)
		r.Get("/{id}", h.GetPack)
		r.Put("/{id}", h.UpdatePack)
		r.Delete("/{id}", h.DeletePack)
	})
	router.Route("/class-types", func(r chi.Router) {
		r.Post("/", h.CreateClassType)
		r.Get("/", h.ListClassTypes)
		r.Get("/{id}", h.GetClassType)
		r.Put("/{id}", h.UpdateClassType)
		r.Delete("/{id}", h.DeleteClassType)
	})
	router.Route("/teachers", func(r chi.Router) {
		r.Post("/", h.CreateTeacher)
		r.Get("/", h.ListTeachers)
		r.Get("/{id}", h.GetTeacher)
		r.Put("/{id}", h.UpdateTeacher)
		r.Delete("/{id}", h.DeleteTeacher)
	})
	router.Route("/schedules", func(r chi.Router) {
		r.Post("/", h.CreateSchedule)
		r.Get("/", h.ListSchedules)
		r.Get("/{id}", h.GetSchedule)
		r.Put("/{id}", h.UpdateSchedule)
		r.Delete("/{id}", h.DeleteSchedule)
	})
	router.Route("/reservations", func(r chi.Router) {
		r.Get("/", h.ListReservations)
		r.Delete("/{id}", h.DeleteReservation)
	})
	router.Route("/payments", func(r chi.Router) {
		r.Post("/", h.CreatePayment)
		r.Get("/", h.ListPayments)
		r.Get("/{id}", h.GetPayment)
		r.Put("/{id}/status", h.UpdatePaymentStatus)
	})
	router.Get("/audit", h.ListAuditLogs)
	router.Get("/ws/credits", h.WSCredits)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
