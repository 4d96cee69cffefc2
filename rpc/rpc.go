package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/colorparty/logger"
	"github.com/wfunc/colorparty/models"
	"github.com/wfunc/colorparty/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsService exposes leaderboard and player-history queries over net/rpc
// for admin tooling.
type StatsService struct {
	leaderboard *services.LeaderboardService
}

func NewStatsService(ls *services.LeaderboardService) *StatsService {
	return &StatsService{leaderboard: ls}
}

type TopArgs struct {
	Limit int
}

type TopReply struct {
	Entries []models.LeaderboardEntry
}

func (s *StatsService) Top(args *TopArgs, reply *TopReply) error {
	entries, err := s.leaderboard.Top(args.Limit)
	if err != nil {
		return err
	}
	reply.Entries = entries
	return nil
}

type PlayerSummaryArgs struct {
	Name string
}

type PlayerSummaryReply struct {
	Summary map[string]interface{}
}

func (s *StatsService) PlayerSummary(args *PlayerSummaryArgs, reply *PlayerSummaryReply) error {
	summary, err := s.leaderboard.PlayerSummary(args.Name)
	if err != nil {
		return err
	}
	reply.Summary = summary
	return nil
}
