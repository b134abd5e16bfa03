package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/kadichii/kadichii/internal/api/v1"
	"github.com/kadichii/kadichii/internal/api/ws"
	"github.com/kadichii/kadichii/internal/auth"
	"github.com/kadichii/kadichii/internal/store/postgres"
	redisstore "github.com/kadichii/kadichii/internal/store/redis"
)

func registerAuthRoutes(api huma.API, authSvc *auth.Service) {
	v1.RegisterAuthRoutes(api, authSvc)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service, pubsub *redisstore.PubSub) {
	v1.RegisterAccountRoutes(api, authSvc)
	v1.RegisterUserRoutes(api, store)
	v1.RegisterProjectRoutes(api, store)
	v1.RegisterColumnRoutes(api, store, pubsub)
	v1.RegisterBoardRoutes(api, store)
	v1.RegisterTaskRoutes(api, store, pubsub)
	v1.RegisterMemberRoutes(api, store)
	v1.RegisterInvitationRoutes(api, store)
	v1.RegisterChatRoutes(api, store, pubsub)
	v1.RegisterWhiteboardRoutes(api, store, pubsub)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/projects/{projectID}/columns", hub.ServeColumns)
	r.Get("/projects/{projectID}/tasks", hub.ServeTasks)
	r.Get("/projects/{projectID}/chat", hub.ServeChat)
	r.Get("/projects/{projectID}/whiteboard", hub.ServeWhiteboard)
}
