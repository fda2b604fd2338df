package controllers

import (
	"github.com/StackAlchemist/healthbridge-api/objectstore"
	"github.com/StackAlchemist/healthbridge-api/scheduling"
)

// Package-level collaborators, wired once from main.
var (
	Scheduler *scheduling.Service
	Uploader  objectstore.Uploader = objectstore.Noop{}
)

// Setup injects the scheduling service and the photo uploader.
func Setup(scheduler *scheduling.Service, uploader objectstore.Uploader) {
	Scheduler = scheduler
	if uploader != nil {
		Uploader = uploader
	}
}
