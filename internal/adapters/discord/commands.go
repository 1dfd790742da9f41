package discord

import "github.com/bwmarrin/discordgo"

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "sq-info",
		Description: "WT: muestra el roster y los puntos de un escuadrón",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "squadron",
				Description: "Nombre largo del escuadrón",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "type",
				Description: "Qué mostrar (por defecto todo)",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "members", Value: "members"},
					{Name: "points", Value: "points"},
				},
			},
		},
	},
	{
		Name:        "sq-find",
		Description: "WT: busca un escuadrón en el leaderboard por tag",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "tag",
			Description: "Tag corto del escuadrón",
			Required:    true,
		}},
	},
	{
		Name:        "sq-top",
		Description: "WT: primera página del leaderboard de escuadrones",
	},
	{
		Name:        "alarm",
		Description: "Configura avisos de bajas, puntos o logs (admins)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Apunta un tipo de aviso a un canal",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "squadron", Description: "Escuadrón a vigilar", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "type", Description: "Tipo de aviso", Required: true, Choices: alarmTypeChoices},
					{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Canal destino", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "toggle",
				Description: "Prende o apaga un aviso sin borrar el canal",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "squadron", Description: "Escuadrón", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "type", Description: "Tipo de aviso", Required: true, Choices: alarmTypeChoices},
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "true = activo", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Borra la configuración de un aviso",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "squadron", Description: "Escuadrón", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "type", Description: "Tipo de aviso", Required: true, Choices: alarmTypeChoices},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "Lista los avisos de esta guild"},
		},
	},
	{
		Name:        "track",
		Description: "Registro de escuadrones seguidos por la guild (admins)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Sigue un escuadrón por tag",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "tag", Description: "Tag corto", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Deja de seguir un escuadrón",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "tag", Description: "Tag corto", Required: true},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "Escuadrones seguidos"},
		},
	},
	{
		Name:        "session",
		Description: "Sesión de scoring: arrancar, loguear batallas, cerrar",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "start",
				Description: "Arranca una sesión para esta guild",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "squadron", Description: "Escuadrón propio", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "region", Description: "Región de la sesión", Required: true, Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "EU", Value: "EU"},
						{Name: "US", Value: "US"},
					}},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "win", Description: "Loguea una victoria", Options: battleOptions},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "loss", Description: "Loguea una derrota", Options: battleOptions},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "edit-last",
				Description: "Corrige la última batalla",
				Options: append([]*discordgo.ApplicationCommandOption{{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "result",
					Description: "Resultado corregido",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "win", Value: "WIN"},
						{Name: "loss", Value: "LOSS"},
					},
				}}, battleOptions...),
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "end", Description: "Cierra la sesión y publica el resumen"},
		},
	},
	{
		Name:        "quick-log",
		Description: "Escanea los replays pendientes ahora, sin esperar al próximo tick",
	},
	{
		Name:        "time-now",
		Description: "Hora UTC actual y qué ventana regional está activa",
	},
}

var alarmTypeChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "leave", Value: "leave"},
	{Name: "points", Value: "points"},
	{Name: "logs", Value: "logs"},
}

// opciones compartidas de win/loss/edit-last
var battleOptions = []*discordgo.ApplicationCommandOption{
	{Type: discordgo.ApplicationCommandOptionString, Name: "opponent", Description: "Escuadrón rival", Required: true},
	{Type: discordgo.ApplicationCommandOptionInteger, Name: "tanks", Description: "Tanques del rival"},
	{Type: discordgo.ApplicationCommandOptionInteger, Name: "fighters", Description: "Cazas del rival"},
	{Type: discordgo.ApplicationCommandOptionInteger, Name: "bombers", Description: "Bombarderos del rival"},
	{Type: discordgo.ApplicationCommandOptionInteger, Name: "helis", Description: "Helicópteros del rival"},
	{Type: discordgo.ApplicationCommandOptionInteger, Name: "spaa", Description: "Antiaéreos del rival"},
	{Type: discordgo.ApplicationCommandOptionString, Name: "comment", Description: "Comentario libre"},
}
