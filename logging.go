package gohamt

import "github.com/sirgallo/logger"


//============================================= gohamt Logging


var pkgLog = logger.NewCustomLog("gohamt")
