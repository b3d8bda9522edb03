package service

import "github.com/juju/loggo"

var logger = loggo.GetLogger("eventsvc.service")
