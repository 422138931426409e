package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const sessionUserKey = "user"

func (s *Server) checkCredentials(username, password string) bool {
	if username != s.cfg.LoginUser {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(s.cfg.LoginPasswordHash), []byte(password))
	return err == nil
}

func (s *Server) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if !s.checkCredentials(username, password) {
		s.logger.Warn("failed login")
		s.render(c, http.StatusUnauthorized, "login.html", gin.H{
			"Error": "Hatalı kullanıcı adı veya şifre",
		})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, username)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/login")
}

func loggedIn(c *gin.Context) bool {
	return sessions.Default(c).Get(sessionUserKey) != nil
}

func (s *Server) pageAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !loggedIn(c) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) apiAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !loggedIn(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}
